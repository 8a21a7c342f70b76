package sync

import (
	"context"
	"encoding/json"
	"net/http"
	"net/http/httptest"
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
	"go.mongodb.org/mongo-driver/bson/primitive"

	"github.com/Karthick1242004/cmms-sub009/models"
)

func TestHTTPRepository_GetPart(t *testing.T) {
	partID := primitive.NewObjectID()
	var gotAuth string

	srv := httptest.NewServer(http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
		gotAuth = r.Header.Get("Authorization")
		switch r.URL.Path {
		case "/api/parts/" + partID.Hex():
			json.NewEncoder(w).Encode(models.Part{ID: partID, PartNumber: "P-9", Name: "Gasket"})
		default:
			w.WriteHeader(http.StatusNotFound)
		}
	}))
	defer srv.Close()

	repo := NewHTTPRepository(srv.URL, "testtoken")

	part, err := repo.GetPart(context.Background(), partID)
	require.NoError(t, err)
	assert.Equal(t, "P-9", part.PartNumber)
	assert.Equal(t, "Bearer testtoken", gotAuth)

	_, err = repo.GetPart(context.Background(), primitive.NewObjectID())
	assert.ErrorIs(t, err, ErrNotFound)
}

func TestHTTPRepository_UpdatePartLinks(t *testing.T) {
	partID := primitive.NewObjectID()
	var gotBody map[string][]models.AssetLink

	srv := httptest.NewServer(http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
		require.Equal(t, http.MethodPut, r.Method)
		require.Equal(t, "/api/parts/"+partID.Hex(), r.URL.Path)
		require.NoError(t, json.NewDecoder(r.Body).Decode(&gotBody))
		w.WriteHeader(http.StatusOK)
	}))
	defer srv.Close()

	repo := NewHTTPRepository(srv.URL, "testtoken")

	links := []models.AssetLink{{AssetID: primitive.NewObjectID(), AssetName: "Boiler", QuantityInAsset: 1}}
	require.NoError(t, repo.UpdatePartLinks(context.Background(), partID, links))
	require.Len(t, gotBody["linkedAssets"], 1)
	assert.Equal(t, "Boiler", gotBody["linkedAssets"][0].AssetName)
}

func TestHTTPRepository_ServerErrorSurfaces(t *testing.T) {
	srv := httptest.NewServer(http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
		w.WriteHeader(http.StatusInternalServerError)
	}))
	defer srv.Close()

	repo := NewHTTPRepository(srv.URL, "testtoken")
	_, err := repo.GetAsset(context.Background(), primitive.NewObjectID())
	require.Error(t, err)
	assert.NotErrorIs(t, err, ErrNotFound)
}
