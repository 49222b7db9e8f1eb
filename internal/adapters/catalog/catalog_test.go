package catalog

import (
	"context"
	"errors"
	"io"
	"strings"
	"testing"

	"github.com/aws/aws-sdk-go-v2/aws"
	"github.com/aws/aws-sdk-go-v2/service/s3"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/jsamuelsen/kondate/internal/domain"
)

const twoRecipes = `
recipes:
  - id: nikujaga
    name: 肉じゃが
    servings: 2
    ingredients: [豚肉 200g, じゃがいも 3個]
    instructions: [弱火で15分煮る]
    tags: [煮物]
  - id: miso-soup
    name: 味噌汁
    servings: 2
    ingredients: [味噌大さじ2]
`

type staticSource struct {
	data []byte
	err  error
}

func (s *staticSource) Name() string { return "static" }

func (s *staticSource) Read(context.Context) ([]byte, error) { return s.data, s.err }

func TestDecode(t *testing.T) {
	recipes, err := Decode(strings.NewReader(twoRecipes))
	require.NoError(t, err)

	require.Len(t, recipes, 2)
	assert.Equal(t, "nikujaga", recipes[0].ID)
	assert.Equal(t, 2, recipes[0].Servings)
	assert.Equal(t, []string{"豚肉 200g", "じゃがいも 3個"}, recipes[0].Ingredients)
	assert.Equal(t, []string{"煮物"}, recipes[0].Tags)
}

func TestDecode_Invalid(t *testing.T) {
	tests := []struct {
		name string
		doc  string
		want string
	}{
		{name: "empty document", doc: "", want: ErrEmptyCatalog.Error()},
		{name: "no recipes", doc: "recipes: []", want: ErrEmptyCatalog.Error()},
		{name: "missing id", doc: "recipes:\n  - name: x\n    servings: 1", want: "id"},
		{name: "duplicate id", doc: "recipes:\n  - {id: a, name: x, servings: 1}\n  - {id: a, name: y, servings: 1}", want: "duplicate"},
		{name: "zero servings", doc: "recipes:\n  - {id: a, name: x, servings: 0}", want: "servings"},
		{name: "unknown field", doc: "recipes:\n  - {id: a, name: x, servings: 1, calories: 300}", want: "calories"},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			_, err := Decode(strings.NewReader(tt.doc))

			require.Error(t, err)
			assert.Contains(t, err.Error(), tt.want)
		})
	}
}

func TestCatalog_ListAndGet(t *testing.T) {
	c, err := New(context.Background(), &staticSource{data: []byte(twoRecipes)})
	require.NoError(t, err)

	all, err := c.List(context.Background())
	require.NoError(t, err)
	require.Len(t, all, 2)

	// callers get copies
	all[0].Ingredients[0] = "changed"

	r, err := c.Get(context.Background(), "nikujaga")
	require.NoError(t, err)
	assert.Equal(t, "豚肉 200g", r.Ingredients[0])

	_, err = c.Get(context.Background(), "missing")
	assert.True(t, domain.IsNotFound(err))

	assert.Equal(t, "catalog", c.Name())
	assert.NoError(t, c.Check(context.Background()))
}

func TestCatalog_ReloadKeepsPreviousOnFailure(t *testing.T) {
	src := &staticSource{data: []byte(twoRecipes)}
	c, err := New(context.Background(), src)
	require.NoError(t, err)

	src.data, src.err = nil, errors.New("disk gone")
	require.Error(t, c.Reload(context.Background()))

	src.data, src.err = []byte("recipes: ["), nil
	require.Error(t, c.Reload(context.Background()))

	all, err := c.List(context.Background())
	require.NoError(t, err)
	assert.Len(t, all, 2)
}

func TestNew_SourceError(t *testing.T) {
	_, err := New(context.Background(), &staticSource{err: errors.New("denied")})

	require.Error(t, err)
	assert.Contains(t, err.Error(), "static")
}

func TestFileSource_ShippedCatalog(t *testing.T) {
	c, err := New(context.Background(), FileSource{Path: "../../../configs/recipes.yaml"})
	require.NoError(t, err)

	all, err := c.List(context.Background())
	require.NoError(t, err)
	assert.NotEmpty(t, all)

	for _, r := range all {
		assert.NotEmpty(t, r.Ingredients, r.ID)
		assert.NotEmpty(t, r.Instructions, r.ID)
	}
}

type fakeS3 struct {
	body string
	err  error
	in   *s3.GetObjectInput
}

func (f *fakeS3) GetObject(_ context.Context, in *s3.GetObjectInput, _ ...func(*s3.Options)) (*s3.GetObjectOutput, error) {
	f.in = in
	if f.err != nil {
		return nil, f.err
	}

	return &s3.GetObjectOutput{Body: io.NopCloser(strings.NewReader(f.body))}, nil
}

func TestS3Source(t *testing.T) {
	client := &fakeS3{body: twoRecipes}
	src := NewS3Source(client, "kondate-catalog", "recipes.yaml")

	c, err := New(context.Background(), src)
	require.NoError(t, err)

	assert.Equal(t, "kondate-catalog", aws.ToString(client.in.Bucket))
	assert.Equal(t, "recipes.yaml", aws.ToString(client.in.Key))
	assert.Equal(t, "s3://kondate-catalog/recipes.yaml", src.Name())

	all, err := c.List(context.Background())
	require.NoError(t, err)
	assert.Len(t, all, 2)
}

func TestS3Source_Error(t *testing.T) {
	src := NewS3Source(&fakeS3{err: errors.New("NoSuchKey")}, "b", "k")

	_, err := src.Read(context.Background())

	require.Error(t, err)
	assert.Contains(t, err.Error(), "NoSuchKey")
}
