package liquidacion

// Options tunes the policies applied while assembling a record.
type Options struct {
	// IncomeTaxWithholding exports the resolved income-tax withholding.
	// When false ret_gan is always 0.
	IncomeTaxWithholding bool
}

// Extractor assembles settlement records from materialized documents. It holds
// no mutable state and is safe for concurrent use.
type Extractor struct {
	opts Options
}

// NewExtractor creates a new extractor
func NewExtractor(opts Options) *Extractor {
	return &Extractor{opts: opts}
}

// Extraction is an assembled record together with the intermediate results
// that produced it.
type Extraction struct {
	Liquidacion Liquidacion `json:"liquidacion"`
	Columns     ColumnSplit `json:"columns"`
	Operation   Operation   `json:"operation"`
	Retentions  Retentions  `json:"retentions"`
}

// Assemble builds the record for doc. It never fails: any field that cannot be
// found keeps its zero value.
func (e *Extractor) Assemble(doc Document) Liquidacion {
	return e.Extract(doc).Liquidacion
}

// Extract runs every extractor over doc and returns the record with its
// intermediate results.
func (e *Extractor) Extract(doc Document) Extraction {
	full := doc.FullText()
	var first Page
	if len(doc.Pages) > 0 {
		first = doc.Pages[0]
	}

	l := Liquidacion{
		Filename:        doc.Filename,
		TipoComprobante: DetectTipo(full),
		Letra:           LetraA,
	}
	l.Fecha, l.Localidad = ExtractHeader(first.Text)

	coe := ExtractCOE(full)
	l.COE, l.PuntoVenta, l.Numero = coe.Code, coe.PuntoVenta, coe.Numero

	cols := SplitColumns(first.Words, first.Width)
	l.Comprador = ParseParty(cols.Buyer)
	l.Vendedor = ParseParty(cols.Seller)
	if acopio, ok := ExtractAcopio(first.Text); ok {
		l.Acopio = acopio
	} else {
		l.Acopio = l.Comprador
		l.AcopioFromBuyer = true
	}

	l.Grano, l.CodNetoVenta = ExtractGrain(full)
	l.Campania = ExtractCampaign(full)

	op := ExtractOperation(full)
	l.Kilos, l.Precio, l.Neto = op.Kilos, op.Precio, op.Neto
	l.AlicIVA, l.IVA, l.Total = op.AlicIVA, op.IVA, op.Total

	l.Mercaderia = ExtractDelivered(full)
	l.Deducciones = ExtractDeductions(full)
	l.PercIVA = ExtractPerceptionIVA(full)

	ret := ExtractRetentions(full)
	l.RetIVA = ret.IVA
	if e.opts.IncomeTaxWithholding {
		l.RetGan = ret.Ganancias
	}

	if IsCreditNote(full) {
		l = NormalizeSigns(l)
	}

	return Extraction{
		Liquidacion: l,
		Columns:     cols,
		Operation:   op,
		Retentions:  ret,
	}
}
