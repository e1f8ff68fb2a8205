package validation

import (
	"errors"
	"strings"
	"testing"
	"time"
)

func TestConfigValidator_Required(t *testing.T) {
	cv := NewConfigValidator("source")
	cv.Required("path", "")

	if !cv.HasErrors() {
		t.Error("Expected error for empty required field")
	}

	cv2 := NewConfigValidator("source")
	cv2.Required("path", "snapshot.json")

	if cv2.HasErrors() {
		t.Error("Expected no error for non-empty required field")
	}
}

func TestConfigValidator_RangeInt(t *testing.T) {
	tests := []struct {
		name    string
		value   int
		wantErr bool
	}{
		{"below", 0, true},
		{"min", 1, false},
		{"inside", 8080, false},
		{"max", 65535, false},
		{"above", 65536, true},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			cv := NewConfigValidator("server")
			cv.RangeInt("port", tt.value, 1, 65535)
			if cv.HasErrors() != tt.wantErr {
				t.Errorf("RangeInt(%d) error = %v, want %v", tt.value, cv.HasErrors(), tt.wantErr)
			}
		})
	}
}

func TestConfigValidator_MinDuration(t *testing.T) {
	cv := NewConfigValidator("server")
	cv.MinDuration("shutdown_timeout", 500*time.Millisecond, time.Second)

	if !cv.HasErrors() {
		t.Error("Expected error for duration below minimum")
	}

	cv2 := NewConfigValidator("server")
	cv2.MinDuration("shutdown_timeout", 5*time.Second, time.Second)

	if cv2.HasErrors() {
		t.Error("Expected no error for duration above minimum")
	}
}

func TestConfigValidator_Positive(t *testing.T) {
	for _, v := range []int{0, -1} {
		if !NewConfigValidator("analysis").Positive("link_limit", v).HasErrors() {
			t.Errorf("Expected error for %d", v)
		}
	}
	if NewConfigValidator("analysis").Positive("link_limit", 1).HasErrors() {
		t.Error("Expected no error for 1")
	}
}

func TestConfigValidator_NonNegative(t *testing.T) {
	if !NewConfigValidator("rate_limit").NonNegative("burst", -1).HasErrors() {
		t.Error("Expected error for negative value")
	}
	if NewConfigValidator("rate_limit").NonNegative("burst", 0).HasErrors() {
		t.Error("Expected no error for zero")
	}
}

func TestConfigValidator_Floats(t *testing.T) {
	if !NewConfigValidator("analysis").PositiveFloat("layout_scale", 0).HasErrors() {
		t.Error("Expected error for zero scale")
	}
	if NewConfigValidator("analysis").PositiveFloat("layout_scale", 100).HasErrors() {
		t.Error("Expected no error for positive scale")
	}
	if !NewConfigValidator("rate_limit").NonNegativeFloat("rps", -0.5).HasErrors() {
		t.Error("Expected error for negative rate")
	}
	if NewConfigValidator("rate_limit").NonNegativeFloat("rps", 0).HasErrors() {
		t.Error("Expected no error for zero rate")
	}
}

func TestConfigValidator_OneOf(t *testing.T) {
	allowed := []string{"file", "postgres", "s3", "synthetic"}

	cv := NewConfigValidator("source")
	cv.OneOf("kind", "mysql", allowed)

	if !cv.HasErrors() {
		t.Error("Expected error for value not in allowed list")
	}

	cv2 := NewConfigValidator("source")
	cv2.OneOf("kind", "postgres", allowed)

	if cv2.HasErrors() {
		t.Error("Expected no error for allowed value")
	}
}

func TestConfigValidator_Custom(t *testing.T) {
	sentinel := errors.New("not a URL")
	cv := NewConfigValidator("server")
	cv.Custom("cors_allowed_origins", func() error { return sentinel })

	if !errors.Is(cv.Validate(), sentinel) {
		t.Errorf("Expected wrapped sentinel, got %v", cv.Validate())
	}

	cv2 := NewConfigValidator("server")
	cv2.Custom("cors_allowed_origins", func() error { return nil })

	if cv2.HasErrors() {
		t.Error("Expected no error from passing custom check")
	}
}

func TestConfigValidator_When(t *testing.T) {
	cv := NewConfigValidator("source")
	cv.When(true, func(v *ConfigValidator) {
		v.Required("database_url", "")
	})

	if !cv.HasErrors() {
		t.Error("Expected When(true) to apply validations")
	}

	cv2 := NewConfigValidator("source")
	cv2.When(false, func(v *ConfigValidator) {
		v.Required("database_url", "")
	})

	if cv2.HasErrors() {
		t.Error("Expected When(false) to skip validations")
	}
}

func TestConfigValidator_Validate(t *testing.T) {
	if err := NewConfigValidator("server").Validate(); err != nil {
		t.Errorf("Expected nil for no errors, got %v", err)
	}

	cv := NewConfigValidator("server").
		RangeInt("port", 0, 1, 65535).
		Required("host", "").
		Positive("max_link_limit", 0)

	if len(cv.Errors()) != 3 {
		t.Fatalf("Expected 3 errors, got %d", len(cv.Errors()))
	}

	err := cv.Validate()
	for _, field := range []string{"server.port", "server.host", "server.max_link_limit"} {
		if !strings.Contains(err.Error(), field) {
			t.Errorf("Expected %q in %q", field, err.Error())
		}
	}
}
