package loader

import (
	"encoding/json"
	"errors"
	"fmt"
	"net/http"
	"net/url"
	"unicode/utf8"

	"github.com/google/uuid"
	"github.com/richardwooding/feed-loader/model"
)

var (
	errNonCanonicalID = errors.New("identifier is not in canonical 8-4-4-4-12 form")
	errEmptyImage     = errors.New("image URI is empty")
	errInvalidUTF8    = errors.New("body is not valid UTF-8")
)

type remoteFeed struct {
	Items []remoteItem `json:"items"`
}

type remoteItem struct {
	ID          string  `json:"id"`
	Description *string `json:"description"`
	Location    *string `json:"location"`
	Image       string  `json:"image"`
}

// Map turns a response into feed items. Only status 200 with a body that fully
// matches the feed schema succeeds; every other input is rejected as a whole.
// Errors are *model.FeedError values of kind model.InvalidData.
func Map(data []byte, statusCode int) ([]model.FeedItem, error) {
	if statusCode != http.StatusOK {
		return nil, model.CreateStatusError(statusCode, nil)
	}

	// encoding/json would replace invalid bytes with U+FFFD instead of failing
	if !utf8.Valid(data) {
		return nil, model.CreateParsingError(errInvalidUTF8, data)
	}

	var instance any
	if err := json.Unmarshal(data, &instance); err != nil {
		return nil, model.CreateParsingError(err, data)
	}

	schema, err := resolvedFeedSchema()
	if err != nil {
		return nil, model.CreateSchemaError(err)
	}
	if err := schema.Validate(instance); err != nil {
		return nil, model.CreateSchemaError(err)
	}

	var feed remoteFeed
	if err := json.Unmarshal(data, &feed); err != nil {
		return nil, model.CreateParsingError(err, data)
	}

	items := make([]model.FeedItem, 0, len(feed.Items))
	for i, remote := range feed.Items {
		item, field, err := remote.toItem()
		if err != nil {
			return nil, model.CreateFieldError(err, fmt.Sprintf("items[%d].%s", i, field))
		}
		items = append(items, item)
	}

	return items, nil
}

// toItem returns the name of the offending field alongside any error
func (r remoteItem) toItem() (model.FeedItem, string, error) {
	id, err := parseID(r.ID)
	if err != nil {
		return model.FeedItem{}, "id", err
	}

	image, err := url.Parse(r.Image)
	if err != nil {
		return model.FeedItem{}, "image", err
	}
	if image.String() == "" {
		return model.FeedItem{}, "image", errEmptyImage
	}

	return model.FeedItem{
		ID:          id,
		Description: r.Description,
		Location:    r.Location,
		ImageURL:    image,
	}, "", nil
}

// parseID accepts only the hyphenated form; uuid.Parse alone would also
// take braces, urn prefixes and bare hex.
func parseID(s string) (uuid.UUID, error) {
	if len(s) != 36 {
		return uuid.UUID{}, errNonCanonicalID
	}
	return uuid.Parse(s)
}
