package upstream

import (
	"context"
	"encoding/json"
	"fmt"
	"net/http"
	"net/http/httptest"
	"testing"

	"github.com/stretchr/testify/assert"

	"case-mirror/core/mirror"
)

func newTestClient(t *testing.T, handler http.Handler) Client {
	t.Helper()
	srv := httptest.NewServer(handler)
	t.Cleanup(srv.Close)

	client, err := NewClient(Config{
		ApiURI:         srv.URL,
		ApiUser:        "svc",
		ApiKey:         "secret",
		TimeoutSeconds: 5,
		PageLimit:      2,
	})
	assert.NoError(t, err)
	return client
}

func TestNewClientRequiresSettings(t *testing.T) {
	_, err := NewClient(Config{ApiURI: "http://registry.local"})
	assert.Error(t, err)
	assert.Contains(t, err.Error(), "upstream.api_user")
	assert.Contains(t, err.Error(), "upstream.api_key")
}

func TestFetchPageSendsAuthAndPaging(t *testing.T) {
	var gotAuth, gotQuery string
	client := newTestClient(t, http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
		gotAuth = r.Header.Get("Authorization")
		gotQuery = r.URL.RawQuery
		fmt.Fprint(w, `{
			"meta": {"limit": 2, "next": "/case/?limit=2&offset=2", "offset": 0, "previous": null, "total_count": 5},
			"objects": [
				{"id": 1, "logical_timestamp": 10, "name": "roof leak"},
				{"id": 4, "logical_timestamp": 20, "name": "broken lock"}
			]
		}`)
	}))

	page, err := client.FetchPage(context.Background(), 2, 0)
	assert.NoError(t, err)
	assert.Equal(t, "apikey svc:secret", gotAuth)
	assert.Equal(t, "limit=2&offset=0", gotQuery)
	assert.True(t, page.HasMore)
	assert.Len(t, page.Records, 2)
	assert.Equal(t, int64(1), page.Records[0].ID)
	assert.Equal(t, int64(10), page.Records[0].Version)
	assert.Equal(t, int64(4), page.Records[1].ID)
	assert.Equal(t, int64(20), page.Records[1].Version)
	// The payload travels verbatim, not re-encoded.
	assert.Contains(t, string(page.Records[1].Payload), `"broken lock"`)
}

func TestFetchPageLastPageHasNoContinuation(t *testing.T) {
	client := newTestClient(t, http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
		fmt.Fprint(w, `{
			"meta": {"limit": 2, "next": null, "offset": 4, "previous": "/case/?limit=2&offset=2", "total_count": 5},
			"objects": [{"id": 9, "logical_timestamp": 3}]
		}`)
	}))

	page, err := client.FetchPage(context.Background(), 2, 4)
	assert.NoError(t, err)
	assert.False(t, page.HasMore)
	assert.Len(t, page.Records, 1)
}

func TestPagesWalksListingToTheEnd(t *testing.T) {
	pages := map[string]string{
		"limit=2&offset=0": `{"meta":{"limit":2,"next":"/case/?limit=2&offset=2","offset":0,"previous":null,"total_count":5},"objects":[{"id":1,"logical_timestamp":1},{"id":2,"logical_timestamp":1}]}`,
		"limit=2&offset=2": `{"meta":{"limit":2,"next":"/case/?limit=2&offset=4","offset":2,"previous":null,"total_count":5},"objects":[{"id":3,"logical_timestamp":1},{"id":4,"logical_timestamp":1}]}`,
		"limit=2&offset=4": `{"meta":{"limit":2,"next":null,"offset":4,"previous":null,"total_count":5},"objects":[{"id":5,"logical_timestamp":1}]}`,
	}
	var requested []string
	client := newTestClient(t, http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
		requested = append(requested, r.URL.RawQuery)
		body, ok := pages[r.URL.RawQuery]
		if !ok {
			t.Errorf("unexpected query %q", r.URL.RawQuery)
			w.WriteHeader(http.StatusInternalServerError)
			return
		}
		fmt.Fprint(w, body)
	}))

	var ids []int64
	iter := client.Pages()
	for {
		page, ok, err := iter.Next(context.Background())
		assert.NoError(t, err)
		if !ok {
			break
		}
		for _, rec := range page.Records {
			ids = append(ids, rec.ID)
		}
	}

	assert.Equal(t, []int64{1, 2, 3, 4, 5}, ids)
	assert.Equal(t, []string{"limit=2&offset=0", "limit=2&offset=2", "limit=2&offset=4"}, requested)
}

func TestTransportFailureIsNormalized(t *testing.T) {
	srv := httptest.NewServer(http.NotFoundHandler())
	uri := srv.URL
	srv.Close()

	client, err := NewClient(Config{ApiURI: uri, ApiUser: "svc", ApiKey: "secret", TimeoutSeconds: 1})
	assert.NoError(t, err)

	_, err = client.FetchPage(context.Background(), 10, 0)
	assert.Error(t, err)
	assert.True(t, IsTransport(err))

	var ue *Error
	assert.ErrorAs(t, err, &ue)
	assert.Equal(t, http.StatusServiceUnavailable, ue.Status)
	assert.Equal(t, "Network Error", ue.Title)
	assert.Equal(t, "Could not reach upstream API", ue.Detail)
}

func TestRejectionKeepsUpstreamStatus(t *testing.T) {
	tests := []struct {
		name      string
		status    int
		body      string
		wantTitle string
		wantMsg   string
	}{
		{
			name:      "unauthorized",
			status:    http.StatusUnauthorized,
			body:      `{"error": "invalid api key"}`,
			wantTitle: "Unauthorized",
			wantMsg:   "invalid api key",
		},
		{
			name:      "bad request with messages",
			status:    http.StatusBadRequest,
			body:      `{"detail": "validation failed", "error_messages": [{"message": "number already in use"}]}`,
			wantTitle: "Bad Request",
			wantMsg:   "validation failed",
		},
		{
			name:      "server error with plain body",
			status:    http.StatusInternalServerError,
			body:      "database exploded",
			wantTitle: "Server Error",
			wantMsg:   "database exploded",
		},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			client := newTestClient(t, http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
				w.WriteHeader(tt.status)
				fmt.Fprint(w, tt.body)
			}))

			_, err := client.FetchPage(context.Background(), 10, 0)
			assert.Error(t, err)
			assert.False(t, IsTransport(err))

			var ue *Error
			assert.ErrorAs(t, err, &ue)
			assert.Equal(t, tt.status, ue.Status)
			assert.Equal(t, tt.wantTitle, ue.Title)
			assert.Equal(t, tt.wantMsg, ue.Detail)
		})
	}
}

func TestRejectionCollectsErrorMessages(t *testing.T) {
	client := newTestClient(t, http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
		w.WriteHeader(http.StatusBadRequest)
		fmt.Fprint(w, `{"error_messages": [{"message": "customer is unknown"}, {"message": "number already in use"}]}`)
	}))

	_, err := client.Get(context.Background(), 7)

	var ue *Error
	assert.ErrorAs(t, err, &ue)
	assert.Equal(t, []string{"customer is unknown", "number already in use"}, ue.Messages)
}

func TestCreatePostsPayload(t *testing.T) {
	var gotMethod, gotPath string
	var gotBody map[string]interface{}
	client := newTestClient(t, http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
		gotMethod = r.Method
		gotPath = r.URL.Path
		assert.NoError(t, json.NewDecoder(r.Body).Decode(&gotBody))
		w.WriteHeader(http.StatusCreated)
		fmt.Fprint(w, `{"id": 42, "logical_timestamp": 1, "customer": "/customer/9/", "number": "C-100", "name": "roof leak"}`)
	}))

	created, err := client.Create(context.Background(), CaseCreate{
		Customer: "/customer/9/",
		Number:   "C-100",
		Name:     "roof leak",
	})
	assert.NoError(t, err)
	assert.Equal(t, http.MethodPost, gotMethod)
	assert.Equal(t, "/case/", gotPath)
	assert.Equal(t, "C-100", gotBody["number"])
	assert.NotContains(t, gotBody, "notes")
	assert.Equal(t, int64(42), created.ID)
	assert.Equal(t, "roof leak", *created.Name)
}

func TestUpdatePutsToCasePath(t *testing.T) {
	var gotMethod, gotPath string
	client := newTestClient(t, http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
		gotMethod = r.Method
		gotPath = r.URL.Path
		fmt.Fprint(w, `{"id": 42, "logical_timestamp": 2, "name": "roof leak fixed"}`)
	}))

	name := "roof leak fixed"
	updated, err := client.Update(context.Background(), 42, CaseUpdate{Name: &name})
	assert.NoError(t, err)
	assert.Equal(t, http.MethodPut, gotMethod)
	assert.Equal(t, "/case/42/", gotPath)
	assert.Equal(t, int64(2), updated.LogicalTimestamp)
}

func TestDelete(t *testing.T) {
	var gotMethod, gotPath string
	client := newTestClient(t, http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
		gotMethod = r.Method
		gotPath = r.URL.Path
		w.WriteHeader(http.StatusNoContent)
	}))

	err := client.Delete(context.Background(), 42)
	assert.NoError(t, err)
	assert.Equal(t, http.MethodDelete, gotMethod)
	assert.Equal(t, "/case/42/", gotPath)
}

func TestDeleteMissingCaseIsNotFound(t *testing.T) {
	client := newTestClient(t, http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
		w.WriteHeader(http.StatusNotFound)
	}))

	err := client.Delete(context.Background(), 42)
	assert.Error(t, err)
	assert.True(t, IsNotFound(err))
}

func TestGetDecodesCase(t *testing.T) {
	client := newTestClient(t, http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
		assert.Equal(t, "/case/7/", r.URL.Path)
		fmt.Fprint(w, `{"id": 7, "logical_timestamp": 5, "number": "C-7", "active": true}`)
	}))

	got, err := client.Get(context.Background(), 7)
	assert.NoError(t, err)
	assert.Equal(t, int64(7), got.ID)
	assert.Equal(t, int64(5), got.LogicalTimestamp)
	assert.Equal(t, "C-7", *got.Number)
	assert.True(t, *got.Active)
}

func TestCaseCreateValidate(t *testing.T) {
	err := CaseCreate{Number: "C-1"}.Validate()
	assert.Error(t, err)

	var ue *Error
	assert.ErrorAs(t, err, &ue)
	assert.Equal(t, http.StatusBadRequest, ue.Status)
	assert.Equal(t, []string{"customer is required", "name is required"}, ue.Messages)

	assert.NoError(t, CaseCreate{Customer: "/customer/1/", Number: "C-1", Name: "x"}.Validate())
}

// Compile-time check that the client satisfies the engine's source contract.
var _ mirror.Source = Client(nil)
