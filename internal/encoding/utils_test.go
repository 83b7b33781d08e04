package encoding

import (
	"errors"
	"testing"
)

func TestVectorRoundTrip(t *testing.T) {
	original := []float32{0.1, -2.5, 3.75, 0}

	data, err := EncodeVector(original)
	if err != nil {
		t.Fatalf("Failed to encode vector: %v", err)
	}

	decoded, err := DecodeVector(data)
	if err != nil {
		t.Fatalf("Failed to decode vector: %v", err)
	}
	if len(decoded) != len(original) {
		t.Fatalf("Expected %d elements, got %d", len(original), len(decoded))
	}
	for i := range original {
		if decoded[i] != original[i] {
			t.Errorf("Expected element %d to be %f, got %f", i, original[i], decoded[i])
		}
	}
}

func TestEncodeVectorNil(t *testing.T) {
	if _, err := EncodeVector(nil); !errors.Is(err, ErrInvalidVector) {
		t.Errorf("Expected ErrInvalidVector for nil vector, got %v", err)
	}
}

func TestEncodeVectorEmpty(t *testing.T) {
	data, err := EncodeVector([]float32{})
	if err != nil {
		t.Fatalf("Failed to encode empty vector: %v", err)
	}
	decoded, err := DecodeVector(data)
	if err != nil {
		t.Fatalf("Failed to decode empty vector: %v", err)
	}
	if len(decoded) != 0 {
		t.Errorf("Expected empty vector, got %v", decoded)
	}
}

func TestDecodeVectorTruncated(t *testing.T) {
	data, err := EncodeVector([]float32{1, 2, 3})
	if err != nil {
		t.Fatalf("Failed to encode vector: %v", err)
	}

	if _, err := DecodeVector(data[:2]); !errors.Is(err, ErrInvalidVector) {
		t.Errorf("Expected ErrInvalidVector for short header, got %v", err)
	}
	if _, err := DecodeVector(data[:len(data)-1]); !errors.Is(err, ErrInvalidVector) {
		t.Errorf("Expected ErrInvalidVector for truncated payload, got %v", err)
	}
}

func TestMetadataRoundTrip(t *testing.T) {
	original := map[string]string{"file_name": "notes.txt", "chunk_index": "2"}

	encoded, err := EncodeMetadata(original)
	if err != nil {
		t.Fatalf("Failed to encode metadata: %v", err)
	}

	decoded, err := DecodeMetadata(encoded)
	if err != nil {
		t.Fatalf("Failed to decode metadata: %v", err)
	}
	if len(decoded) != 2 || decoded["file_name"] != "notes.txt" {
		t.Errorf("Expected metadata to round-trip, got %v", decoded)
	}
}

func TestMetadataNil(t *testing.T) {
	encoded, err := EncodeMetadata(nil)
	if err != nil {
		t.Fatalf("Failed to encode nil metadata: %v", err)
	}
	if encoded != "" {
		t.Errorf("Expected empty string for nil metadata, got %q", encoded)
	}

	decoded, err := DecodeMetadata("")
	if err != nil {
		t.Fatalf("Failed to decode empty metadata: %v", err)
	}
	if decoded != nil {
		t.Errorf("Expected nil map for empty string, got %v", decoded)
	}
}
