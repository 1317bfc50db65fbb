package neuralnet

import (
	"context"
	"encoding/json"
	"errors"
	"fmt"
	"io"
	"net/http"
	"net/url"
	"os"
	"strings"
)

// The serialized model is {"levels": [level, ...]}. Layer sizes are not
// stored; they are inferred from the array lengths of each level.
type networkJSON struct {
	Levels []*Level `json:"levels"`
}

func (nn *NeuralNetwork) MarshalJSON() ([]byte, error) {
	levels := nn.Levels
	if levels == nil {
		levels = []*Level{}
	}
	return json.Marshal(networkJSON{Levels: levels})
}

func (nn *NeuralNetwork) UnmarshalJSON(data []byte) error {
	var record networkJSON
	if err := json.Unmarshal(data, &record); err != nil {
		return err
	}
	if record.Levels == nil {
		return errors.New("model has no levels")
	}
	for k, level := range record.Levels {
		if level == nil {
			return fmt.Errorf("level %d is null", k)
		}
		if k > 0 && record.Levels[k-1].OutputCount() != level.InputCount() {
			return fmt.Errorf("level %d: %w", k, shapeError("level chain", record.Levels[k-1].OutputCount(), level.InputCount()))
		}
	}
	nn.Levels = record.Levels
	return nil
}

// FromJSON decodes a serialized network. Levels whose arrays disagree in
// length fail with ErrShape; any other malformed payload is a
// *NotFoundError.
func FromJSON(data []byte) (*NeuralNetwork, error) {
	nn := &NeuralNetwork{}
	if err := json.Unmarshal(data, nn); err != nil {
		if errors.Is(err, ErrShape) {
			return nil, fmt.Errorf("decode model: %w", err)
		}
		return nil, &NotFoundError{Err: fmt.Errorf("decode model: %w", err)}
	}
	return nn, nil
}

func (nn *NeuralNetwork) Save(path string) error {
	data, err := json.Marshal(nn)
	if err != nil {
		return fmt.Errorf("encode model: %w", err)
	}
	if err := os.WriteFile(path, data, 0o644); err != nil {
		return fmt.Errorf("write model: %w", err)
	}
	return nil
}

// Load reads a network saved with Save.
func Load(path string) (*NeuralNetwork, error) {
	return Fetch(context.Background(), path)
}

// Fetch retrieves a serialized network from an http(s) URL, a file:// URL
// or a plain file path. Retrieval failures and unparsable payloads are
// reported as a *NotFoundError carrying uri; inconsistent level shapes
// fail with ErrShape as in FromJSON.
func Fetch(ctx context.Context, uri string) (*NeuralNetwork, error) {
	data, err := fetchBytes(ctx, uri)
	if err != nil {
		return nil, &NotFoundError{URI: uri, Err: err}
	}
	nn, err := FromJSON(data)
	if err != nil {
		var notFound *NotFoundError
		if errors.As(err, &notFound) {
			notFound.URI = uri
			return nil, notFound
		}
		return nil, fmt.Errorf("model at %q: %w", uri, err)
	}
	return nn, nil
}

func fetchBytes(ctx context.Context, uri string) ([]byte, error) {
	switch {
	case strings.HasPrefix(uri, "http://"), strings.HasPrefix(uri, "https://"):
		req, err := http.NewRequestWithContext(ctx, http.MethodGet, uri, nil)
		if err != nil {
			return nil, err
		}
		resp, err := http.DefaultClient.Do(req)
		if err != nil {
			return nil, err
		}
		defer resp.Body.Close()
		if resp.StatusCode < 200 || resp.StatusCode > 299 {
			return nil, fmt.Errorf("unexpected status %s", resp.Status)
		}
		return io.ReadAll(resp.Body)
	case strings.HasPrefix(uri, "file://"):
		u, err := url.Parse(uri)
		if err != nil {
			return nil, err
		}
		return os.ReadFile(u.Path)
	default:
		return os.ReadFile(uri)
	}
}
