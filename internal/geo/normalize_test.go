package geo

import (
	"testing"

	"github.com/stretchr/testify/assert"
)

func TestNormalize(t *testing.T) {
	tests := []struct {
		name  string
		input string
		want  string
	}{
		{"empty", "", ""},
		{"trims whitespace", "  Kadıköy  ", "kadıköy"},
		{"dotted capital I folds to dotted i", "İstanbul", "istanbul"},
		{"dotless capital I folds to dotless i", "IRMAK", "ırmak"},
		{"mixed", "Ada KUAFÖR", "ada kuaför"},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			assert.Equal(t, tt.want, Normalize(tt.input))
		})
	}
}

func TestNormalizeIdempotent(t *testing.T) {
	inputs := []string{"İstanbul", "ÇANKAYA", "ada kuaför", "Şişli"}
	for _, s := range inputs {
		once := Normalize(s)
		assert.Equal(t, once, Normalize(once), "normalizing twice must be a no-op for %q", s)
	}
}

func TestNormalizeCaseVariantsAgree(t *testing.T) {
	assert.Equal(t, Normalize("İSTANBUL"), Normalize("istanbul"))
	assert.Equal(t, Normalize("Kadıköy"), Normalize("KADIKÖY"))
}

func TestContains(t *testing.T) {
	assert.True(t, Contains("Bağdat Caddesi No:12, Kadıköy/İstanbul", "istanbul"))
	assert.True(t, Contains("Ada Kuaför", "KUAFÖR"))
	assert.False(t, Contains("Beta Berber", "kuaför"))
	assert.True(t, Contains("anything", ""))
}
