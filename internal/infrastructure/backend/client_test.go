package backend

import (
	"context"
	"encoding/json"
	"fmt"
	"net/http"
	"net/http/httptest"
	"testing"
	"time"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"shopkeep/internal/domain/service"
	"shopkeep/internal/infrastructure/localstore"
	apperrors "shopkeep/pkg/errors"
)

func TestCreateOrUpdateSendsBearerTokenAndPayload(t *testing.T) {
	var gotAuth string
	var gotPayload service.ProductPayload
	server := httptest.NewServer(http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
		gotAuth = r.Header.Get("Authorization")
		require.NoError(t, json.NewDecoder(r.Body).Decode(&gotPayload))
		fmt.Fprint(w, `{"id":"prod-1","name":"Steel Bottle"}`)
	}))
	defer server.Close()

	client := NewClient(server.URL, localstore.NewTokenStore("tok-123"), time.Second)

	product, err := client.CreateOrUpdate(context.Background(), service.ProductPayload{
		Name:  "Steel Bottle",
		Price: "250.00",
	})
	require.NoError(t, err)

	assert.Equal(t, "Bearer tok-123", gotAuth)
	assert.Equal(t, "Steel Bottle", gotPayload.Name)
	assert.Equal(t, "prod-1", product.ID)
}

func TestCreateOrUpdateExtractsServerErrorMessage(t *testing.T) {
	server := httptest.NewServer(http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
		w.WriteHeader(http.StatusUnprocessableEntity)
		fmt.Fprint(w, `{"error":{"message":"category does not exist"}}`)
	}))
	defer server.Close()

	client := NewClient(server.URL, localstore.NewTokenStore("tok"), time.Second)

	_, err := client.CreateOrUpdate(context.Background(), service.ProductPayload{Name: "x"})
	require.Error(t, err)
	assert.True(t, apperrors.Is(err, apperrors.CodeServer))
	assert.Contains(t, err.Error(), "category does not exist")
}

func TestCreateOrUpdateFallsBackToRawStatus(t *testing.T) {
	server := httptest.NewServer(http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
		w.WriteHeader(http.StatusBadGateway)
	}))
	defer server.Close()

	client := NewClient(server.URL, localstore.NewTokenStore("tok"), time.Second)

	_, err := client.CreateOrUpdate(context.Background(), service.ProductPayload{Name: "x"})
	require.Error(t, err)
	assert.Contains(t, err.Error(), "502")
}

func TestCreateOrUpdateWithoutToken(t *testing.T) {
	client := NewClient("http://localhost:0", localstore.NewTokenStore(""), time.Second)

	_, err := client.CreateOrUpdate(context.Background(), service.ProductPayload{Name: "x"})
	require.Error(t, err)
	assert.True(t, apperrors.Is(err, apperrors.CodeUnauthorized))
}

func TestCreateOrUpdateNetworkError(t *testing.T) {
	dead := httptest.NewServer(http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {}))
	dead.Close()

	client := NewClient(dead.URL, localstore.NewTokenStore("tok"), time.Second)

	_, err := client.CreateOrUpdate(context.Background(), service.ProductPayload{Name: "x"})
	require.Error(t, err)
	assert.True(t, apperrors.Is(err, apperrors.CodeNetwork))
}

func TestRepeatSubmissionsAreIndependentCalls(t *testing.T) {
	calls := 0
	server := httptest.NewServer(http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
		calls++
		fmt.Fprint(w, `{"id":"prod-1"}`)
	}))
	defer server.Close()

	client := NewClient(server.URL, localstore.NewTokenStore("tok"), time.Second)

	payload := service.ProductPayload{Name: "Steel Bottle", Price: "250.00"}
	_, err := client.CreateOrUpdate(context.Background(), payload)
	require.NoError(t, err)
	_, err = client.CreateOrUpdate(context.Background(), payload)
	require.NoError(t, err)

	// No client-side dedup: two submits are two transmissions
	assert.Equal(t, 2, calls)
}

func TestListCategories(t *testing.T) {
	server := httptest.NewServer(http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
		assert.Equal(t, "/v1/categories", r.URL.Path)
		fmt.Fprint(w, `[{"id":"cat-1","name":"Kitchen","attributes":[{"name":"material","type":"enum","options":["steel","plastic"]}]}]`)
	}))
	defer server.Close()

	client := NewClient(server.URL, localstore.NewTokenStore("tok"), time.Second)

	categories, err := client.ListCategories(context.Background())
	require.NoError(t, err)
	require.Len(t, categories, 1)
	assert.Equal(t, "Kitchen", categories[0].Name)
	require.Len(t, categories[0].Attributes, 1)
	assert.Equal(t, []string{"steel", "plastic"}, categories[0].Attributes[0].Options)
}
