package predict

import (
	"context"
	"encoding/json"
	"errors"
	"io"
	"net/http"
	"net/http/httptest"
	"testing"
	"time"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"winedash/internal/features"
)

func sampleSet() features.Set {
	return features.Set{
		FixedAcidity:      7.0,
		VolatileAcidity:   0.27,
		CitricAcid:        0.36,
		Chlorides:         0.05,
		FreeSulfurDioxide: 30,
		Density:           0.995,
		Alcohol:           10.5,
		TypeWhite:         1,
	}
}

func TestClient_Predict_Success(t *testing.T) {
	t.Parallel()

	var gotBody []byte
	var gotContentType string
	srv := httptest.NewServer(http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
		require.Equal(t, http.MethodPost, r.Method)
		gotContentType = r.Header.Get("Content-Type")
		gotBody, _ = io.ReadAll(r.Body)

		w.Header().Set("Content-Type", "application/json")
		w.Write([]byte(`{"predicted_quality": 6.2}`))
	}))
	defer srv.Close()

	c := New(srv.URL, 5*time.Second)
	quality, err := c.Predict(context.Background(), sampleSet())
	require.NoError(t, err)
	assert.Equal(t, 6.2, quality)
	assert.Contains(t, gotContentType, "application/json")

	// The request body is exactly the 8 wire fields, key for key.
	var body map[string]float64
	require.NoError(t, json.Unmarshal(gotBody, &body))
	assert.Equal(t, map[string]float64{
		"fixed_acidity":       7.0,
		"volatile_acidity":    0.27,
		"citric_acid":         0.36,
		"chlorides":           0.05,
		"free_sulfur_dioxide": 30,
		"density":             0.995,
		"alcohol":             10.5,
		"type_white":          1,
	}, body)
}

func TestClient_Predict_IgnoresExtraFields(t *testing.T) {
	t.Parallel()

	srv := httptest.NewServer(http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
		w.Header().Set("Content-Type", "application/json")
		w.Write([]byte(`{"predicted_quality": 5.5, "model_version": "v3", "latency_ms": 12}`))
	}))
	defer srv.Close()

	c := New(srv.URL, 5*time.Second)
	quality, err := c.Predict(context.Background(), sampleSet())
	require.NoError(t, err)
	assert.Equal(t, 5.5, quality)
}

func TestClient_Predict_ApplicationError(t *testing.T) {
	t.Parallel()

	srv := httptest.NewServer(http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
		w.Header().Set("Content-Type", "application/json")
		w.WriteHeader(http.StatusInternalServerError)
		w.Write([]byte(`{"error": "model unavailable"}`))
	}))
	defer srv.Close()

	c := New(srv.URL, 5*time.Second)
	_, err := c.Predict(context.Background(), sampleSet())

	var apiErr *APIError
	require.ErrorAs(t, err, &apiErr)
	assert.Equal(t, http.StatusInternalServerError, apiErr.Status)
	assert.Equal(t, "model unavailable", apiErr.Message)
}

func TestClient_Predict_UnparsableErrorBody(t *testing.T) {
	t.Parallel()

	srv := httptest.NewServer(http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
		w.WriteHeader(http.StatusInternalServerError)
		w.Write([]byte("<html>Internal Server Error</html>"))
	}))
	defer srv.Close()

	c := New(srv.URL, 5*time.Second)
	_, err := c.Predict(context.Background(), sampleSet())

	var apiErr *APIError
	require.ErrorAs(t, err, &apiErr)
	assert.Contains(t, apiErr.Message, "status 500")
}

func TestClient_Predict_MissingQualityField(t *testing.T) {
	t.Parallel()

	srv := httptest.NewServer(http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
		w.Header().Set("Content-Type", "application/json")
		w.Write([]byte(`{"status": "ok"}`))
	}))
	defer srv.Close()

	c := New(srv.URL, 5*time.Second)
	_, err := c.Predict(context.Background(), sampleSet())

	var apiErr *APIError
	require.ErrorAs(t, err, &apiErr)
	assert.Contains(t, apiErr.Message, "predicted_quality")
}

func TestClient_Predict_ZeroQualityIsNotMissing(t *testing.T) {
	t.Parallel()

	srv := httptest.NewServer(http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
		w.Header().Set("Content-Type", "application/json")
		w.Write([]byte(`{"predicted_quality": 0}`))
	}))
	defer srv.Close()

	c := New(srv.URL, 5*time.Second)
	quality, err := c.Predict(context.Background(), sampleSet())
	require.NoError(t, err)
	assert.Zero(t, quality)
}

func TestClient_Predict_TransportError(t *testing.T) {
	t.Parallel()

	srv := httptest.NewServer(http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {}))
	srv.Close() // nothing is listening anymore

	c := New(srv.URL, time.Second)
	_, err := c.Predict(context.Background(), sampleSet())
	require.Error(t, err)

	var apiErr *APIError
	assert.False(t, errors.As(err, &apiErr), "transport failures are not APIErrors")
}
