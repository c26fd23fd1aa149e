package sbb

import (
	"context"
	"encoding/json"

	"odmcp/internal/opendata"
	"odmcp/internal/schema"
	"odmcp/internal/tools"
)

// RollingStockParams are the arguments of the rolling-stock tool.
type RollingStockParams struct {
	RecordQuery
}

// RollingStockResult is one vehicle record. Many fields can be null
// upstream, so everything is optional.
type RollingStockResult struct {
	FahrzeugArtStruktur       string  `json:"fahrzeug_art_struktur,omitempty"`
	FahrzeugTyp               string  `json:"fahrzeug_typ,omitempty"`
	Objekt                    string  `json:"objekt,omitempty"`
	BaudatumFahrzeug          string  `json:"baudatum_fahrzeug,omitempty"`
	EigengewichtTara          float64 `json:"eigengewicht_tara,omitempty"`
	LangeUberPufferLup        int     `json:"lange_uber_puffer_lup,omitempty"`
	VmaxBetrieblichZugelassen int     `json:"vmax_betrieblich_zugelassen,omitempty"`
}

// RollingStockResponse is one page of vehicle records.
type RollingStockResponse struct {
	TotalCount int                  `json:"total_count"`
	Results    []RollingStockResult `json:"results"`
}

func newRollingStockTool(client *opendata.Client) (tools.Descriptor, tools.Handler) {
	desc := tools.Descriptor{
		Name:        "rolling-stock",
		Description: "Fetch rolling stock (vehicle) information such as type and build date and maximum speed",
		InputSchema: schema.ReflectFor[RollingStockParams](),
	}

	handler := func(ctx context.Context, args json.RawMessage) (*tools.Result, error) {
		var p RollingStockParams
		if err := json.Unmarshal(args, &p); err != nil {
			return nil, tools.NewInternalError("decoding arguments", err)
		}

		var resp RollingStockResponse
		if err := client.Records(ctx, datasetRollingStock, p.query(), &resp); err != nil {
			return nil, err
		}
		return render(resp)
	}

	return desc, handler
}
