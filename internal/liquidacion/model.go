package liquidacion

// Word is a single word of a page with the coordinates of its top-left
// corner. Top grows downwards from the top edge of the page.
type Word struct {
	Text string  `json:"text"`
	X0   float64 `json:"x0"`
	Top  float64 `json:"top"`
}

// Page is the materialized content of one PDF page.
type Page struct {
	Text  string  `json:"text"`
	Words []Word  `json:"words,omitempty"`
	Width float64 `json:"width"`
}

// Document is the input of the extraction engine: every page of one file,
// already decoded by a PDF collaborator.
type Document struct {
	Filename string `json:"filename"`
	Pages    []Page `json:"pages"`
}

// FullText joins the text of every page with newlines.
func (d Document) FullText() string {
	n := 0
	for _, p := range d.Pages {
		n += len(p.Text) + 1
	}
	buf := make([]byte, 0, n)
	for i, p := range d.Pages {
		if i > 0 {
			buf = append(buf, '\n')
		}
		buf = append(buf, p.Text...)
	}
	return string(buf)
}

// DeductionLine is one row of the deductions table. A zero rate marks an
// exempt line.
type DeductionLine struct {
	Concept     string  `json:"concepto"`
	NetAmount   float64 `json:"neto"`
	RatePercent float64 `json:"alicuota"`
	VATAmount   float64 `json:"iva"`
	TotalAmount float64 `json:"total"`
}

// Exempt reports whether the line carries no VAT rate.
func (d DeductionLine) Exempt() bool {
	return d.RatePercent == 0
}

// DeliveredItem is one row of the "MERCADERIA ENTREGADA" sub-table.
type DeliveredItem struct {
	ReceiptNumber  string  `json:"nro_comprobante"`
	Grade          string  `json:"grado"`
	Factor         float64 `json:"factor"`
	ProteinContent float64 `json:"contenido_proteico"`
	WeightKg       float64 `json:"peso_kg"`
	Origin         string  `json:"procedencia"`
}

// Comprobante types.
const (
	TipoF1 = "F1"
	TipoF2 = "F2"

	LetraA = "A"
)

// Liquidacion is the assembled settlement record. Monetary fields default to
// zero when a value could not be found.
type Liquidacion struct {
	Filename        string `json:"filename"`
	COE             string `json:"coe"`
	PuntoVenta      string `json:"pv"`
	Numero          string `json:"numero"`
	TipoComprobante string `json:"tipo_comprobante"`
	Letra           string `json:"letra"`
	CreditNote      bool   `json:"nota_credito"`

	Fecha     string `json:"fecha"`
	Localidad string `json:"localidad"`

	Acopio          Party `json:"acopio"`
	AcopioFromBuyer bool  `json:"acopio_es_comprador"`
	Comprador       Party `json:"comprador"`
	Vendedor        Party `json:"vendedor"`

	Grano        string `json:"grano"`
	CodNetoVenta string `json:"cod_neto_venta"`
	Campania     string `json:"campania"`

	Kilos   float64 `json:"kilos"`
	Precio  float64 `json:"precio"`
	Neto    float64 `json:"neto"`
	AlicIVA float64 `json:"alic_iva"`
	IVA     float64 `json:"iva"`
	Total   float64 `json:"total"`

	PercIVA float64 `json:"perc_iva"`
	RetIVA  float64 `json:"ret_iva"`
	RetGan  float64 `json:"ret_gan"`

	Deducciones []DeductionLine `json:"deducciones"`
	Mercaderia  []DeliveredItem `json:"mercaderia_entregada"`
}

// Comprobante renders the point of sale and number as "pppp-nnnnnnnn", or ""
// when either part is missing.
func (l Liquidacion) Comprobante() string {
	if l.PuntoVenta == "" || l.Numero == "" {
		return ""
	}
	return l.PuntoVenta + "-" + l.Numero
}

// FirstDelivered returns the first goods-delivered item, used by exports that
// only carry a single delivery.
func (l Liquidacion) FirstDelivered() (DeliveredItem, bool) {
	if len(l.Mercaderia) == 0 {
		return DeliveredItem{}, false
	}
	return l.Mercaderia[0], true
}
