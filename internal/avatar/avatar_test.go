package avatar

import (
	"context"
	"errors"
	"testing"

	"github.com/soyeahso/safetalk/internal/domain"
	"github.com/soyeahso/safetalk/internal/logging"
	"github.com/soyeahso/safetalk/internal/store"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

type failingKV struct{}

func (failingKV) Get(context.Context, string) (string, error) { return "", errors.New("disk gone") }
func (failingKV) Set(context.Context, string, string) error  { return errors.New("disk gone") }

func TestDefault(t *testing.T) {
	d := Default()
	assert.Equal(t, "arab", d.Ethnicity)
	assert.Equal(t, "medium", d.Hairstyle)
	assert.Equal(t, "normal", d.BodyType)
	assert.Equal(t, "blue", d.ClothingColor)
	assert.Empty(t, d.Name)
}

func TestDefaultsAreCatalogValues(t *testing.T) {
	d := Default()
	d.Name = "x"
	assert.NoError(t, Validate(d))
}

func TestCatalogSizes(t *testing.T) {
	assert.Len(t, Ethnicities, 5)
	assert.Len(t, Hairstyles, 5)
	assert.Len(t, BodyTypes, 6)
	assert.Len(t, ClothingColors, 6)
}

func TestValidate(t *testing.T) {
	good := domain.AvatarProfile{Name: "Nour", Ethnicity: "latino", Hairstyle: "afro", BodyType: "petite", ClothingColor: "purple"}
	assert.NoError(t, Validate(good))

	noName := good
	noName.Name = "  "
	assert.ErrorIs(t, Validate(noName), ErrNameRequired)

	bad := good
	bad.BodyType = "giant"
	err := Validate(bad)
	require.Error(t, err)
	assert.Contains(t, err.Error(), "bodyType")
	assert.Contains(t, err.Error(), "broad")
}

func TestLookup(t *testing.T) {
	o, ok := Lookup(ClothingColors, "red")
	require.True(t, ok)
	assert.Equal(t, "#FF4444", o.Color)
	_, ok = Lookup(ClothingColors, "teal")
	assert.False(t, ok)
}

func TestLoadMissing(t *testing.T) {
	p := NewProfiles(store.NewMemoryKV(), logging.Nop())
	_, ok := p.Load(context.Background())
	assert.False(t, ok)
}

func TestSaveLoadRoundTrip(t *testing.T) {
	ctx := context.Background()
	p := NewProfiles(store.NewMemoryKV(), logging.Nop())
	prof := domain.AvatarProfile{Name: "Sam", Ethnicity: "asian", Hairstyle: "long", BodyType: "slim", ClothingColor: "green"}
	require.NoError(t, p.Save(ctx, prof))

	got, ok := p.Load(ctx)
	require.True(t, ok)
	assert.Equal(t, prof, got)
}

func TestLoadFillsDefaults(t *testing.T) {
	ctx := context.Background()
	kv := store.NewMemoryKV()
	require.NoError(t, kv.Set(ctx, StorageKey, `{"name":"Ali","ethnicity":"black"}`))

	got, ok := NewProfiles(kv, logging.Nop()).Load(ctx)
	require.True(t, ok)
	assert.Equal(t, "black", got.Ethnicity)
	assert.Equal(t, "medium", got.Hairstyle)
	assert.Equal(t, "blue", got.ClothingColor)
}

func TestLoadMalformedOrEmpty(t *testing.T) {
	ctx := context.Background()
	for _, raw := range []string{"{not json", `{"name":"only a name"}`, `null`} {
		kv := store.NewMemoryKV()
		require.NoError(t, kv.Set(ctx, StorageKey, raw))
		_, ok := NewProfiles(kv, logging.Nop()).Load(ctx)
		assert.False(t, ok, raw)
	}
}

func TestStorageFailure(t *testing.T) {
	p := NewProfiles(failingKV{}, logging.Nop())
	_, ok := p.Load(context.Background())
	assert.False(t, ok)
	assert.Error(t, p.Save(context.Background(), Default()))
}
