package model

import (
	"net/url"
	"reflect"
	"testing"

	"github.com/google/uuid"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func ptr(s string) *string { return &s }

func mustURL(t *testing.T, raw string) *url.URL {
	t.Helper()
	u, err := url.Parse(raw)
	require.NoError(t, err)
	return u
}

func TestFeedItem_Equal(t *testing.T) {
	id := uuid.New()
	base := FeedItem{ID: id, Description: ptr("a"), Location: nil, ImageURL: mustURL(t, "http://a-url.com")}

	same := FeedItem{ID: id, Description: ptr("a"), Location: nil, ImageURL: mustURL(t, "http://a-url.com")}
	assert.True(t, base.Equal(same), "optional fields compare by value")

	otherDesc := same
	otherDesc.Description = ptr("b")
	assert.False(t, base.Equal(otherDesc))

	missingDesc := same
	missingDesc.Description = nil
	assert.False(t, base.Equal(missingDesc))

	otherLoc := same
	otherLoc.Location = ptr("")
	assert.False(t, base.Equal(otherLoc), "empty location is not absent location")

	otherImage := same
	otherImage.ImageURL = mustURL(t, "http://another-url.com")
	assert.False(t, base.Equal(otherImage))

	otherID := same
	otherID.ID = uuid.New()
	assert.False(t, base.Equal(otherID))
}

func TestLoadResult_Success(t *testing.T) {
	item := FeedItem{ID: uuid.New(), ImageURL: mustURL(t, "http://a-url.com")}
	result := Success([]FeedItem{item})

	items, err := result.Get()
	require.NoError(t, err)
	assert.True(t, result.IsSuccess())
	assert.Len(t, items, 1)
	assert.Equal(t, "success(1 items)", result.String())
}

func TestLoadResult_SuccessWithNilIsEmpty(t *testing.T) {
	items, err := Success(nil).Get()

	require.NoError(t, err)
	assert.NotNil(t, items)
	assert.Empty(t, items)
	assert.True(t, Success(nil).Equal(Success([]FeedItem{})))
}

func TestLoadResult_Failure(t *testing.T) {
	result := Failure(InvalidData)

	items, err := result.Get()
	assert.Nil(t, items)
	assert.ErrorIs(t, err, InvalidData)
	assert.False(t, result.IsSuccess())
	assert.Equal(t, "failure(invalid data)", result.String())
}

func TestLoadResult_Equal(t *testing.T) {
	assert.True(t, Failure(Connectivity).Equal(Failure(Connectivity)))
	assert.False(t, Failure(Connectivity).Equal(Failure(InvalidData)))
	assert.False(t, Failure(Connectivity).Equal(Success(nil)))
}

func TestLoadError_Error(t *testing.T) {
	assert.Equal(t, "connectivity", Connectivity.Error())
	assert.Equal(t, "invalid data", InvalidData.Error())
	assert.Equal(t, "undefined", LoadError(0).Error())
}

func TestFeedItem_IsNotAWireType(t *testing.T) {
	typ := reflect.TypeFor[FeedItem]()
	for i := range typ.NumField() {
		field := typ.Field(i)
		_, tagged := field.Tag.Lookup("json")
		assert.False(t, tagged, "field %s carries a json tag", field.Name)
	}
}
