// sync/httpapi.go
package sync

import (
	"bytes"
	"context"
	"encoding/json"
	"fmt"
	"net/http"

	"go.mongodb.org/mongo-driver/bson/primitive"

	"github.com/Karthick1242004/cmms-sub009/models"
)

// HTTPRepository re-enters the service's own asset/part CRUD endpoints
// with a bearer token forwarded from the original caller. It keeps the
// reconciler decoupled from the storage engine for deployments where the
// sync runs out-of-process. Implements both AssetRepository and
// PartRepository.
type HTTPRepository struct {
	baseURL string
	token   string
	client  *http.Client
}

func NewHTTPRepository(baseURL, bearerToken string) *HTTPRepository {
	return &HTTPRepository{
		baseURL: baseURL,
		token:   bearerToken,
		client:  &http.Client{},
	}
}

func (r *HTTPRepository) do(ctx context.Context, method, path string, body interface{}, out interface{}) error {
	var reqBody *bytes.Buffer
	if body != nil {
		data, err := json.Marshal(body)
		if err != nil {
			return err
		}
		reqBody = bytes.NewBuffer(data)
	} else {
		reqBody = bytes.NewBuffer(nil)
	}

	req, err := http.NewRequestWithContext(ctx, method, r.baseURL+path, reqBody)
	if err != nil {
		return err
	}
	req.Header.Set("Content-Type", "application/json")
	req.Header.Set("Authorization", "Bearer "+r.token)

	resp, err := r.client.Do(req)
	if err != nil {
		return err
	}
	defer resp.Body.Close()

	if resp.StatusCode == http.StatusNotFound {
		return ErrNotFound
	}
	if resp.StatusCode < 200 || resp.StatusCode >= 300 {
		return fmt.Errorf("%s %s: unexpected status %d", method, path, resp.StatusCode)
	}

	if out != nil {
		return json.NewDecoder(resp.Body).Decode(out)
	}
	return nil
}

func (r *HTTPRepository) GetAsset(ctx context.Context, id primitive.ObjectID) (*models.Asset, error) {
	var asset models.Asset
	if err := r.do(ctx, http.MethodGet, "/api/assets/"+id.Hex(), nil, &asset); err != nil {
		return nil, err
	}
	return &asset, nil
}

func (r *HTTPRepository) UpdateAssetBOM(ctx context.Context, id primitive.ObjectID, bom []models.BOMItem) error {
	body := map[string]interface{}{"partsBOM": bom}
	return r.do(ctx, http.MethodPut, "/api/assets/"+id.Hex(), body, nil)
}

func (r *HTTPRepository) GetPart(ctx context.Context, id primitive.ObjectID) (*models.Part, error) {
	var part models.Part
	if err := r.do(ctx, http.MethodGet, "/api/parts/"+id.Hex(), nil, &part); err != nil {
		return nil, err
	}
	return &part, nil
}

func (r *HTTPRepository) UpdatePartLinks(ctx context.Context, id primitive.ObjectID, links []models.AssetLink) error {
	body := map[string]interface{}{"linkedAssets": links}
	return r.do(ctx, http.MethodPut, "/api/parts/"+id.Hex(), body, nil)
}
