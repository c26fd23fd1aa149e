// Package sbb exposes datasets of the Swiss Federal Railways open data
// catalog (data.sbb.ch) as callable tools. Each tool wraps exactly one
// dataset record endpoint.
package sbb

import (
	"odmcp/internal/opendata"
	"odmcp/internal/tools"
)

// Dataset identifiers on data.sbb.ch.
const (
	datasetTrafficInfo      = "rail-traffic-information"
	datasetRailwayLines     = "linie"
	datasetRollingStock     = "rollmaterial"
	datasetStationUsers     = "anzahl-sbb-bahnhofbenutzer"
	datasetIstDaten         = "ist-daten-sbb"
	datasetStationFurniture = "mobiliar-im-bahnhof"
	datasetStationServices  = "haltestelle-offnungszeiten"
	datasetStationStores    = "offnungszeiten-shops"
)

// RecordQuery is the set of query arguments shared by every dataset tool.
type RecordQuery struct {
	Select  string `json:"select,omitempty" jsonschema:"description=Comma-separated list of fields to include in the response"`
	Where   string `json:"where,omitempty" jsonschema:"description=Filter expression in ODSQL syntax"`
	GroupBy string `json:"group_by,omitempty" jsonschema:"description=Field to group results by"`
	OrderBy string `json:"order_by,omitempty" jsonschema:"description=Sort expression such as a field name followed by ASC or DESC"`
	Limit   int    `json:"limit,omitempty" jsonschema:"minimum=1,maximum=100,default=10,description=Maximum number of entries to return (1-100)"`
	Offset  int    `json:"offset,omitempty" jsonschema:"minimum=0,default=0,description=Number of entries to skip for pagination"`
}

func (p RecordQuery) query() opendata.Query {
	return opendata.Query{
		Select:  p.Select,
		Where:   p.Where,
		GroupBy: p.GroupBy,
		OrderBy: p.OrderBy,
		Limit:   p.Limit,
		Offset:  p.Offset,
	}
}

// FacetQuery adds the refinement arguments supported by the richer record
// endpoints.
type FacetQuery struct {
	Refine          string `json:"refine,omitempty" jsonschema:"description=Refine by a facet such as author:SBB"`
	Exclude         string `json:"exclude,omitempty" jsonschema:"description=Exclude specific fields from the response"`
	Lang            string `json:"lang,omitempty" jsonschema:"enum=de,enum=fr,enum=it,enum=en,description=Language code for response content"`
	IncludeLinks    bool   `json:"include_links,omitempty" jsonschema:"default=false,description=Include related links in the response"`
	IncludeAppMetas bool   `json:"include_app_metas,omitempty" jsonschema:"default=false,description=Include application metadata"`
}

func (p FacetQuery) applyTo(q *opendata.Query) {
	q.Refine = p.Refine
	q.Exclude = p.Exclude
	q.Lang = p.Lang
	q.IncludeLinks = p.IncludeLinks
	q.IncludeAppMetas = p.IncludeAppMetas
}

// GeoPoint2D is a WGS84 coordinate as returned by the catalog.
type GeoPoint2D struct {
	Lon float64 `json:"lon"`
	Lat float64 `json:"lat"`
}

// render wraps a typed dataset response into a single human-readable text
// block.
func render(v any) (*tools.Result, error) {
	res, err := tools.NewJSONResult(v)
	if err != nil {
		return nil, tools.NewInternalError("rendering result", err)
	}
	return res, nil
}

type toolFunc func(*opendata.Client) (tools.Descriptor, tools.Handler)

// Register adds every data.sbb.ch dataset tool to the registry. It fails on
// the first registration error; the caller treats that as a startup abort.
func Register(reg *tools.Registry, client *opendata.Client) error {
	defs := []toolFunc{
		newTrafficInfoTool,
		newRailwayLinesTool,
		newRollingStockTool,
		newStationUsersTool,
		newTargetActualTool,
		newStationFurnitureTool,
		newStationServicesTool,
		newStationStoresTool,
	}
	for _, def := range defs {
		desc, handler := def(client)
		if err := reg.Register(desc, handler); err != nil {
			return err
		}
	}
	return nil
}
