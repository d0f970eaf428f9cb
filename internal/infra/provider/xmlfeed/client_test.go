package xmlfeed

import (
	"context"
	"fmt"
	"net/http"
	"testing"
	"time"

	"github.com/jarcoal/httpmock"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
	"go.uber.org/zap"

	"library-catalog-service/internal/domain"
	"library-catalog-service/internal/infra/provider"
)

const testEndpoint = "https://books.example.com/feed"

func newTestClient() *Client {
	cfg := provider.ClientConfig{
		Name:    "books",
		BaseURL: "https://books.example.com",
		Timeout: 5 * time.Second,
		Retry: provider.RetryConfig{
			MaxAttempts: 3,
			WaitTime:    100 * time.Millisecond,
			MaxWaitTime: 500 * time.Millisecond,
		},
		CB: provider.CBConfig{
			MaxRequests:  5,
			Interval:     60 * time.Second,
			Timeout:      15 * time.Second,
			FailureRatio: 0.6,
		},
	}
	client := New(cfg, domain.ResourceTypeTitle, zap.NewNop())

	httpmock.ActivateNonDefault(client.client.GetClient())

	return client
}

func mockSuccessXMLResponse() string {
	return `<?xml version="1.0" encoding="UTF-8"?>
<feed>
	<items>
		<item>
			<id>b1</id>
			<title>Gestão de Pessoas</title>
			<author>João Souza</author>
			<subject>Administração</subject>
			<year>2019</year>
			<pages>320</pages>
			<language>pt-BR</language>
			<document_type>Livro</document_type>
			<country_code>BR</country_code>
			<categories>
				<category>gestão</category>
				<category>rh</category>
			</categories>
		</item>
		<item>
			<id>b2</id>
			<title>Policy Analysis</title>
			<type>titulo</type>
			<year>2022</year>
			<document_type>Artigo</document_type>
			<categories></categories>
		</item>
	</items>
	<meta>
		<total_count>2</total_count>
	</meta>
</feed>`
}

func TestXMLFeed_Fetch_Success(t *testing.T) {
	defer httpmock.DeactivateAndReset()

	client := newTestClient()
	httpmock.RegisterResponder("GET", testEndpoint,
		httpmock.NewStringResponder(200, mockSuccessXMLResponse()))

	resources, err := client.Fetch(context.Background())

	require.NoError(t, err)
	require.Len(t, resources, 2)

	assert.Equal(t, "books", resources[0].ProviderID)
	assert.Equal(t, "b1", resources[0].ExternalID)
	assert.Equal(t, "Gestão de Pessoas", resources[0].Title)
	assert.Equal(t, domain.ResourceTypeTitle, resources[0].Type)
	assert.Equal(t, 2019, resources[0].Year)
	assert.Equal(t, 320, resources[0].Pages)
	assert.Equal(t, "Livro", resources[0].DocumentType)
	assert.Equal(t, []string{"gestão", "rh"}, resources[0].Tags)

	assert.Equal(t, "Artigo", resources[1].DocumentType)
	assert.Empty(t, resources[1].Tags)
}

func TestXMLFeed_Fetch_SkipsItemsWithoutID(t *testing.T) {
	defer httpmock.DeactivateAndReset()

	client := newTestClient()
	httpmock.RegisterResponder("GET", testEndpoint,
		httpmock.NewStringResponder(200, `<feed><items>
			<item><title>orphan</title></item>
			<item><id>b9</id><title>kept</title></item>
		</items></feed>`))

	resources, err := client.Fetch(context.Background())

	require.NoError(t, err)
	require.Len(t, resources, 1)
	assert.Equal(t, "b9", resources[0].ExternalID)
}

func TestXMLFeed_Fetch_EmptyResponse(t *testing.T) {
	defer httpmock.DeactivateAndReset()

	client := newTestClient()
	httpmock.RegisterResponder("GET", testEndpoint,
		httpmock.NewStringResponder(200, `<feed><items></items><meta><total_count>0</total_count></meta></feed>`))

	resources, err := client.Fetch(context.Background())

	require.NoError(t, err)
	assert.Empty(t, resources)
}

func TestXMLFeed_Fetch_HTTPErrors(t *testing.T) {
	defer httpmock.DeactivateAndReset()

	tests := []struct {
		name       string
		statusCode int
	}{
		{"400 Bad Request", 400},
		{"429 Too Many Requests", 429},
		{"500 Internal Server Error", 500},
		{"502 Bad Gateway", 502},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			httpmock.Reset()
			client := newTestClient()
			httpmock.RegisterResponder("GET", testEndpoint,
				httpmock.NewStringResponder(tt.statusCode, "error"))

			resources, err := client.Fetch(context.Background())

			require.Error(t, err)
			assert.Nil(t, resources)
			assert.Contains(t, err.Error(), fmt.Sprintf("status %d", tt.statusCode))
		})
	}
}

func TestXMLFeed_Fetch_InvalidXML(t *testing.T) {
	defer httpmock.DeactivateAndReset()

	client := newTestClient()
	httpmock.RegisterResponder("GET", testEndpoint,
		httpmock.NewStringResponder(200, "not xml at all"))

	resources, err := client.Fetch(context.Background())

	require.Error(t, err)
	assert.Nil(t, resources)
	assert.Contains(t, err.Error(), "parsing books XML")
}

func TestXMLFeed_Fetch_NetworkError(t *testing.T) {
	defer httpmock.DeactivateAndReset()

	client := newTestClient()
	httpmock.RegisterResponder("GET", testEndpoint,
		httpmock.NewErrorResponder(fmt.Errorf("connection refused")))

	resources, err := client.Fetch(context.Background())

	require.Error(t, err)
	assert.Nil(t, resources)
	assert.Contains(t, err.Error(), "fetching from books")
}

func TestXMLFeed_Retry_MaxRetriesExceeded(t *testing.T) {
	defer httpmock.DeactivateAndReset()

	client := newTestClient()
	callCount := 0
	httpmock.RegisterResponder("GET", testEndpoint,
		func(_ *http.Request) (*http.Response, error) {
			callCount++
			return httpmock.NewStringResponse(500, "Server Error"), nil
		})

	resources, err := client.Fetch(context.Background())

	require.Error(t, err)
	assert.Nil(t, resources)
	assert.Equal(t, 4, callCount, "one request plus three retries")
}

func TestXMLFeed_Name(t *testing.T) {
	defer httpmock.DeactivateAndReset()

	assert.Equal(t, "books", newTestClient().Name())
}
