package liquidacion

import (
	"testing"

	"github.com/stretchr/testify/assert"
)

func TestParseParty(t *testing.T) {
	tests := []struct {
		name  string
		block string
		want  Party
	}{
		{
			name: "wrapped name and address",
			block: "COMPRADOR\n" +
				"Razón Social: COOPERATIVA AGRICOLA\n" +
				"GANADERA LIMITADA\n" +
				"Domicilio: Av. San Martín 123\n" +
				"Piso 2\n" +
				"Localidad: Videla\n" +
				"C.U.I.T.: 30-50000000-7\n" +
				"I.V.A.: Responsable Inscripto",
			want: Party{
				Name:            "COOPERATIVA AGRICOLA GANADERA LIMITADA",
				Address:         "Av. San Martín 123 Piso 2",
				Locality:        "Videla",
				TaxID:           "30500000007",
				VATConditionRaw: "Responsable Inscripto",
			},
		},
		{
			name:  "value bled from another label is cut",
			block: "Razón Social: ACME SA Domicilio: Calle 1",
			want: Party{
				Name:    "ACME SA",
				Address: "Calle 1",
			},
		},
		{
			name: "continuation with colon is not joined",
			block: "Razón Social: ACME\n" +
				"Ingresos Brutos: 123\n" +
				"C.U.I.T. 30123456789",
			want: Party{
				Name:  "ACME",
				TaxID: "30123456789",
			},
		},
		{
			name:  "empty block",
			block: "  \n ",
			want:  Party{},
		},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			assert.Equal(t, tt.want, ParseParty(tt.block))
		})
	}
}

func TestParty_CondFisc(t *testing.T) {
	tests := []struct {
		raw  string
		want string
	}{
		{raw: "Responsable Inscripto", want: CondRI},
		{raw: "RI", want: CondRI},
		{raw: "IVA Exento", want: CondEX},
		{raw: "Consumidor Final", want: CondCF},
		{raw: " Monotributo ", want: "Monotributo"},
		{raw: "", want: ""},
	}

	for _, tt := range tests {
		t.Run(tt.raw, func(t *testing.T) {
			assert.Equal(t, tt.want, Party{VATConditionRaw: tt.raw}.CondFisc())
		})
	}
}
