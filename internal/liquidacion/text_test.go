package liquidacion

import (
	"testing"

	"github.com/stretchr/testify/assert"
)

func TestFold(t *testing.T) {
	assert.Equal(t, "RAZON SOCIAL", Fold("Razón Social"))
	assert.Equal(t, "OPERACION\nMAIZ", Fold("Operación\nMaíz"))
	assert.Equal(t, "MERCADERIA ENTREGADA", Fold("MERCADERÍA ENTREGADA"))
}

func TestNormalize(t *testing.T) {
	assert.Equal(t, "ACTUO CORREDOR", Normalize("  Actuó \n\t corredor "))
	assert.Equal(t, "", Normalize("   "))
}

func TestSection(t *testing.T) {
	tests := []struct {
		name   string
		text   string
		starts []string
		ends   []string
		want   string
		wantOK bool
	}{
		{
			name:   "bounded",
			text:   "xx Deducciones\nfoo\nRetenciones yy",
			starts: []string{"DEDUCCIONES"},
			ends:   []string{"RETENCIONES"},
			want:   "Deducciones\nfoo\n",
			wantOK: true,
		},
		{
			name:   "accented markers keep original text",
			text:   "Mercadería Entregada\nfila\nOperación",
			starts: []string{"MERCADERIA ENTREGADA"},
			ends:   []string{"OPERACION"},
			want:   "Mercadería Entregada\nfila\n",
			wantOK: true,
		},
		{
			name:   "earliest end marker wins",
			text:   "RETENCIONES a OTROS b GRADO c",
			starts: []string{"RETENCIONES"},
			ends:   []string{"GRADO", "OTROS"},
			want:   "RETENCIONES a ",
			wantOK: true,
		},
		{
			name:   "runs to end without end marker",
			text:   "RETENCIONES a b",
			starts: []string{"RETENCIONES"},
			ends:   []string{"GRADO"},
			want:   "RETENCIONES a b",
			wantOK: true,
		},
		{
			name:   "missing start",
			text:   "nothing here",
			starts: []string{"RETENCIONES"},
			ends:   []string{"GRADO"},
			wantOK: false,
		},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			got, ok := section(tt.text, tt.starts, tt.ends)
			assert.Equal(t, tt.wantOK, ok)
			assert.Equal(t, tt.want, got)
		})
	}
}

func TestSplitLines(t *testing.T) {
	assert.Equal(t, []string{"a", "b c", "d"}, splitLines("  a \r\n\n b c \rd"))
	assert.Empty(t, splitLines(" \n "))
}
