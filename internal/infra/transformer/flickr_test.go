package transformer

import (
	"errors"
	"strings"
	"testing"

	"github.com/PhotoSearch/internal/domain"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func intPtr(i int) *int { return &i }

func strPtr(s string) *string { return &s }

func TestFlickrTransformer_Normalize_Success(t *testing.T) {
	raw := &domain.RawResponse{
		Photos: &domain.RawPage{
			Page:    1,
			Pages:   3,
			PerPage: 100,
			Total:   "300",
			Photo: []domain.RawItem{
				{ID: "1", Title: "photo1", Owner: "someone", URLThumb: strPtr("https://q/1.jpg")},
				{ID: "2", Title: "photo2", URLMedium: strPtr("https://m/2.jpg")},
				{ID: "3", Title: "photo3"},
			},
		},
		Stat: "ok",
	}

	page, err := NewFlickrTransformer().Normalize(raw)
	require.NoError(t, err)

	assert.Equal(t, 1, page.PageNumber)
	assert.Equal(t, 3, page.TotalPages)
	assert.Equal(t, 100, page.PerPage)
	assert.Equal(t, "300", page.TotalCount)
	require.Len(t, page.Items, 3)

	assert.Equal(t, "1", page.Items[0].ID)
	assert.Equal(t, "photo1", page.Items[0].Title)
	require.NotNil(t, page.Items[0].ThumbnailURL)
	assert.Equal(t, "https://q/1.jpg", *page.Items[0].ThumbnailURL)
	assert.Nil(t, page.Items[0].MediumURL)

	assert.Nil(t, page.Items[1].ThumbnailURL)
	require.NotNil(t, page.Items[1].MediumURL)
	assert.Equal(t, "https://m/2.jpg", *page.Items[1].MediumURL)

	assert.Equal(t, domain.Item{ID: "3", Title: "photo3"}, page.Items[2])
}

func TestFlickrTransformer_Normalize_Failure(t *testing.T) {
	tests := []struct {
		name    string
		raw     *domain.RawResponse
		code    *int
		message string
	}{
		{
			name:    "permission denied",
			raw:     &domain.RawResponse{Stat: "fail", Code: intPtr(4), Message: "You don't have permission to view this pool"},
			code:    intPtr(4),
			message: "You don't have permission to view this pool",
		},
		{
			name:    "stat claims ok without payload",
			raw:     &domain.RawResponse{Stat: "ok", Code: intPtr(114), Message: "Invalid SOAP envelope"},
			code:    intPtr(114),
			message: "Invalid SOAP envelope",
		},
		{
			name:    "no code and no message",
			raw:     &domain.RawResponse{},
			code:    nil,
			message: domain.DefaultRemoteErrorMessage,
		},
		{
			name:    "nil response",
			raw:     nil,
			code:    nil,
			message: domain.DefaultRemoteErrorMessage,
		},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			page, err := NewFlickrTransformer().Normalize(tt.raw)
			assert.Nil(t, page)

			var remoteErr *domain.RemoteError
			require.True(t, errors.As(err, &remoteErr))
			assert.Equal(t, tt.code, remoteErr.Code)
			assert.Equal(t, tt.message, remoteErr.Message)
			assert.False(t, remoteErr.IsTransport())
		})
	}
}

func TestFlickrTransformer_Transform(t *testing.T) {
	body := `{
		"photos": {
			"page": 2, "pages": 5, "perpage": 2, "total": 10,
			"photo": [
				{"id": "a", "owner": "o", "secret": "s", "server": "1", "farm": 66, "title": "first",
				 "ispublic": 1, "isfriend": 0, "isfamily": 0, "url_q": "https://q/a.jpg", "height_q": 150},
				{"id": "b", "title": "second", "url_q": "", "url_m": "https://m/b.jpg"}
			]
		},
		"stat": "ok"
	}`

	page, err := NewFlickrTransformer().Transform(strings.NewReader(body))
	require.NoError(t, err)

	assert.Equal(t, 2, page.PageNumber)
	assert.Equal(t, 5, page.TotalPages)
	assert.Equal(t, "10", page.TotalCount)
	require.Len(t, page.Items, 2)
	assert.Equal(t, "https://q/a.jpg", *page.Items[0].ThumbnailURL)
	assert.Nil(t, page.Items[1].ThumbnailURL, "empty url must map to nil")
	assert.Equal(t, "https://m/b.jpg", *page.Items[1].MediumURL)
}

func TestFlickrTransformer_Transform_FailurePayload(t *testing.T) {
	body := `{"stat":"fail","code":100,"message":"Invalid API Key (Key has invalid format)"}`

	_, err := NewFlickrTransformer().Transform(strings.NewReader(body))

	var remoteErr *domain.RemoteError
	require.ErrorAs(t, err, &remoteErr)
	assert.Equal(t, 100, *remoteErr.Code)
	assert.Equal(t, "Invalid API Key (Key has invalid format)", remoteErr.Error())
}

func TestFlickrTransformer_Transform_BadJSON(t *testing.T) {
	_, err := NewFlickrTransformer().Transform(strings.NewReader(`{"photos":`))
	assert.Error(t, err)
	assert.Contains(t, err.Error(), "failed to decode flickr response")
}
