package mailer

import (
	"context"
	"encoding/json"
	"errors"
	"net/http"
	"net/http/httptest"
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/skillhub-io/skillhub-api/pkg/config"
	appErrors "github.com/skillhub-io/skillhub-api/pkg/errors"
)

func testEmailConfig(endpoint string) config.EmailConfig {
	return config.EmailConfig{
		Endpoint:    endpoint,
		FrontendURL: "https://skillhub.example",
		Director: config.EmailChannel{
			ServiceID:  "svc_dir",
			TemplateID: "tpl_dir",
			PublicKey:  "key_dir",
		},
		Accept: config.EmailChannel{
			ServiceID:  "svc_acc",
			TemplateID: "tpl_acc",
			PublicKey:  "key_acc",
		},
	}
}

func TestClientSendPostsChannelPayload(t *testing.T) {
	var got sendPayload
	var headers http.Header
	server := httptest.NewServer(http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
		headers = r.Header.Clone()
		require.NoError(t, json.NewDecoder(r.Body).Decode(&got))
		w.WriteHeader(http.StatusOK)
	}))
	defer server.Close()

	client := NewClient(testEmailConfig(server.URL), nil)
	err := client.Send(context.Background(), ChannelDirector, map[string]interface{}{
		"name": "Jane Doe",
	})
	require.NoError(t, err)

	assert.Equal(t, "svc_dir", got.ServiceID)
	assert.Equal(t, "tpl_dir", got.TemplateID)
	assert.Equal(t, "key_dir", got.UserID)
	assert.Equal(t, "Jane Doe", got.TemplateParams["name"])
	assert.Equal(t, "https://skillhub.example", headers.Get("Origin"))
	assert.Equal(t, "https://skillhub.example", headers.Get("Referer"))
}

func TestClientSendUnconfiguredChannel(t *testing.T) {
	client := NewClient(testEmailConfig("http://unused.invalid"), nil)

	err := client.Send(context.Background(), ChannelReset, nil)
	require.Error(t, err)

	var typed *appErrors.Error
	require.True(t, errors.As(err, &typed))
	assert.Equal(t, appErrors.ErrEmailNotConfigured.Code, typed.Code)
	assert.Contains(t, typed.Message, "reset")
}

func TestClientSendUpstreamError(t *testing.T) {
	server := httptest.NewServer(http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
		http.Error(w, "invalid public key", http.StatusForbidden)
	}))
	defer server.Close()

	client := NewClient(testEmailConfig(server.URL), nil)
	err := client.Send(context.Background(), ChannelAccept, nil)
	require.Error(t, err)
	assert.Contains(t, err.Error(), "status 403")

	var typed *appErrors.Error
	assert.False(t, errors.As(err, &typed), "transport failure is not a configuration error")
}
