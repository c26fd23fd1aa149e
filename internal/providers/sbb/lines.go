package sbb

import (
	"context"
	"encoding/json"

	"odmcp/internal/opendata"
	"odmcp/internal/schema"
	"odmcp/internal/tools"
)

// RailwayLineParams are the arguments of the railway-lines tool.
type RailwayLineParams struct {
	RecordQuery
}

// LineGeometry is the geographic course of a line.
type LineGeometry struct {
	Coordinates [][]float64 `json:"coordinates,omitempty"`
	Type        string      `json:"type,omitempty"`
}

// LineFeature is a GeoJSON-style feature wrapping a line geometry.
type LineFeature struct {
	Type       string         `json:"type,omitempty"`
	Geometry   *LineGeometry  `json:"geometry,omitempty"`
	Properties map[string]any `json:"properties,omitempty"`
}

// RailwayLineResult is one railway line record.
type RailwayLineResult struct {
	Linie               int          `json:"linie,omitempty"`
	Linienname          string       `json:"linienname,omitempty"`
	BpkAnfang           string       `json:"bpk_anfang,omitempty"`
	BpkEnde             string       `json:"bpk_ende,omitempty"`
	KmAnfang            float64      `json:"km_anfang,omitempty"`
	KmEnde              float64      `json:"km_ende,omitempty"`
	StationierungAnfang int          `json:"stationierung_anfang,omitempty"`
	StationierungEnde   int          `json:"stationierung_ende,omitempty"`
	Tst                 *LineFeature `json:"tst,omitempty"`
	GeoPoint2D          *GeoPoint2D  `json:"geo_point_2d,omitempty"`
}

// RailwayLineResponse is one page of railway line records.
type RailwayLineResponse struct {
	TotalCount int                 `json:"total_count"`
	Results    []RailwayLineResult `json:"results"`
}

func newRailwayLinesTool(client *opendata.Client) (tools.Descriptor, tools.Handler) {
	desc := tools.Descriptor{
		Name:        "railway-lines",
		Description: "Fetch railway line information including start and end stations and kilometrage",
		InputSchema: schema.ReflectFor[RailwayLineParams](),
	}

	handler := func(ctx context.Context, args json.RawMessage) (*tools.Result, error) {
		var p RailwayLineParams
		if err := json.Unmarshal(args, &p); err != nil {
			return nil, tools.NewInternalError("decoding arguments", err)
		}

		var resp RailwayLineResponse
		if err := client.Records(ctx, datasetRailwayLines, p.query(), &resp); err != nil {
			return nil, err
		}
		return render(resp)
	}

	return desc, handler
}
