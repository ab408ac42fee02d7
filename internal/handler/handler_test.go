package handler

import (
	"crypto/tls"
	"net/http/httptest"
	"testing"

	"github.com/leca/dt-pokeapi/internal/config"
	"github.com/stretchr/testify/assert"
)

func TestParseIdentifier(t *testing.T) {
	cases := []struct {
		raw   string
		want  identifier
		valid bool
	}{
		{"25", identifier{id: 25}, true},
		{"Pikachu", identifier{name: "pikachu"}, true},
		{"mr-mime", identifier{name: "mr-mime"}, true},
		{"-1", identifier{name: "-1"}, true},
		{"", identifier{}, false},
		{"' OR 1=1", identifier{}, false},
		{"../etc/passwd", identifier{}, false},
		{"<script>", identifier{}, false},
	}
	for _, tc := range cases {
		t.Run(tc.raw, func(t *testing.T) {
			got, ok := parseIdentifier(tc.raw)
			assert.Equal(t, tc.valid, ok)
			assert.Equal(t, tc.want, got)
		})
	}
}

func TestBaseURL(t *testing.T) {
	req := httptest.NewRequest("GET", "http://twin.test:8080/api/v2/pokemon", nil)

	h := &Handler{Config: &config.Config{}}
	assert.Equal(t, "http://twin.test:8080/api/v2", h.baseURL(req))

	req.TLS = &tls.ConnectionState{}
	assert.Equal(t, "https://twin.test:8080/api/v2", h.baseURL(req))

	h.Config.BaseURL = "https://pokeapi.co/api/v2"
	assert.Equal(t, "https://pokeapi.co/api/v2", h.baseURL(req))
}
