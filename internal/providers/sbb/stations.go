package sbb

import (
	"context"
	"encoding/json"

	"odmcp/internal/opendata"
	"odmcp/internal/schema"
	"odmcp/internal/tools"
)

// StationUsersParams are the arguments of the station-users tool.
type StationUsersParams struct {
	RecordQuery
	FacetQuery
}

// StationUsersResult is one yearly station usage record.
type StationUsersResult struct {
	BahnhofGareStazione   string `json:"bahnhof_gare_stazione,omitempty"`
	Jahr                  int    `json:"jahr,omitempty"`
	AnzahlBahnhofbenutzer int    `json:"anzahl_bahnhofbenutzer,omitempty"`
}

// StationUsersResponse is one page of station usage records.
type StationUsersResponse struct {
	TotalCount int                  `json:"total_count"`
	Results    []StationUsersResult `json:"results"`
}

func newStationUsersTool(client *opendata.Client) (tools.Descriptor, tools.Handler) {
	desc := tools.Descriptor{
		Name:        "station-users",
		Description: "Fetch yearly counts of SBB station users per station",
		InputSchema: schema.ReflectFor[StationUsersParams](),
	}

	handler := func(ctx context.Context, args json.RawMessage) (*tools.Result, error) {
		var p StationUsersParams
		if err := json.Unmarshal(args, &p); err != nil {
			return nil, tools.NewInternalError("decoding arguments", err)
		}
		q := p.RecordQuery.query()
		p.FacetQuery.applyTo(&q)

		var resp StationUsersResponse
		if err := client.Records(ctx, datasetStationUsers, q, &resp); err != nil {
			return nil, err
		}
		return render(resp)
	}

	return desc, handler
}

// StationFurnitureParams are the arguments of the station-furniture tool.
type StationFurnitureParams struct {
	RecordQuery
	FacetQuery
}

// StationFurnitureResult is one station equipment record.
type StationFurnitureResult struct {
	We                   string      `json:"we,omitempty"`
	Didok                int         `json:"didok,omitempty"`
	Bezeichnung          string      `json:"bezeichnung,omitempty"`
	Flame2               float64     `json:"flame2,omitempty"`
	Einheit              string      `json:"einheit,omitempty"`
	BezeichnungOffiziell string      `json:"bezeichnung_offiziell,omitempty"`
	Lod                  string      `json:"lod,omitempty"`
	Geopos               *GeoPoint2D `json:"geopos,omitempty"`
	TuNummer             int         `json:"tu_nummer,omitempty"`
	Bpuic                int         `json:"bpuic,omitempty"`
}

// StationFurnitureResponse is one page of station equipment records.
type StationFurnitureResponse struct {
	TotalCount int                      `json:"total_count"`
	Results    []StationFurnitureResult `json:"results"`
}

func newStationFurnitureTool(client *opendata.Client) (tools.Descriptor, tools.Handler) {
	desc := tools.Descriptor{
		Name:        "station-furniture",
		Description: "Fetch station furniture and equipment inventory per station",
		InputSchema: schema.ReflectFor[StationFurnitureParams](),
	}

	handler := func(ctx context.Context, args json.RawMessage) (*tools.Result, error) {
		var p StationFurnitureParams
		if err := json.Unmarshal(args, &p); err != nil {
			return nil, tools.NewInternalError("decoding arguments", err)
		}
		q := p.RecordQuery.query()
		p.FacetQuery.applyTo(&q)

		var resp StationFurnitureResponse
		if err := client.Records(ctx, datasetStationFurniture, q, &resp); err != nil {
			return nil, err
		}
		return render(resp)
	}

	return desc, handler
}

// StationServicesParams are the arguments of the station-services tool.
type StationServicesParams struct {
	RecordQuery
	FacetQuery
}

// StationServicesResult is one staffed-counter opening hours record.
type StationServicesResult struct {
	DstNr                int         `json:"dst_nr,omitempty"`
	Stationsbezeichnung  string      `json:"stationsbezeichnung,omitempty"`
	Datum                string      `json:"datum,omitempty"`
	Feiertag             string      `json:"feiertag,omitempty"`
	Wochentag            string      `json:"wochentag,omitempty"`
	National             int         `json:"national,omitempty"`
	Servicetyp           int         `json:"servicetyp,omitempty"`
	Servicename          string      `json:"servicename,omitempty"`
	Closed               string      `json:"closed,omitempty"`
	Von1                 string      `json:"von1,omitempty"`
	Bis1                 string      `json:"bis1,omitempty"`
	Von2                 string      `json:"von2,omitempty"`
	Bis2                 string      `json:"bis2,omitempty"`
	Von3                 string      `json:"von3,omitempty"`
	Bis3                 string      `json:"bis3,omitempty"`
	Unternehmung         string      `json:"unternehmung,omitempty"`
	Bpuic                int         `json:"bpuic,omitempty"`
	BezeichnungOffiziell string      `json:"bezeichnung_offiziell,omitempty"`
	Abkuerzung           string      `json:"abkuerzung,omitempty"`
	Lod                  string      `json:"lod,omitempty"`
	Geopos               *GeoPoint2D `json:"geopos,omitempty"`
	TuNummer             int         `json:"tu_nummer,omitempty"`
	Meteo                string      `json:"meteo,omitempty"`
	Plz                  string      `json:"plz,omitempty"`
}

// StationServicesResponse is one page of service opening hour records.
type StationServicesResponse struct {
	TotalCount int                     `json:"total_count"`
	Results    []StationServicesResult `json:"results"`
}

func newStationServicesTool(client *opendata.Client) (tools.Descriptor, tools.Handler) {
	desc := tools.Descriptor{
		Name:        "station-services",
		Description: "Fetch opening hours of staffed station services and counters",
		InputSchema: schema.ReflectFor[StationServicesParams](),
	}

	handler := func(ctx context.Context, args json.RawMessage) (*tools.Result, error) {
		var p StationServicesParams
		if err := json.Unmarshal(args, &p); err != nil {
			return nil, tools.NewInternalError("decoding arguments", err)
		}
		q := p.RecordQuery.query()
		p.FacetQuery.applyTo(&q)

		var resp StationServicesResponse
		if err := client.Records(ctx, datasetStationServices, q, &resp); err != nil {
			return nil, err
		}
		return render(resp)
	}

	return desc, handler
}

// StationStoresParams are the arguments of the station-stores tool.
type StationStoresParams struct {
	RecordQuery
	FacetQuery
}

// StationStoresResult is one shop-in-station record. Contact and opening
// hour structures vary by shop, so they stay untyped.
type StationStoresResult struct {
	StationUIC           int         `json:"station_uic,omitempty"`
	Category             string      `json:"category,omitempty"`
	Subcategory          string      `json:"subcategory,omitempty"`
	NameDE               string      `json:"name_de,omitempty"`
	NameFR               string      `json:"name_fr,omitempty"`
	NameIT               string      `json:"name_it,omitempty"`
	NameEN               string      `json:"name_en,omitempty"`
	IconSVG              string      `json:"icon_svg,omitempty"`
	Contacts             any         `json:"contacts,omitempty"`
	OpeningHours         any         `json:"openinghours,omitempty"`
	Geo                  *GeoPoint2D `json:"geo,omitempty"`
	LocationDetailsDE    string      `json:"location_details_de,omitempty"`
	LocationDetailsFR    string      `json:"location_details_fr,omitempty"`
	LocationDetailsIT    string      `json:"location_details_it,omitempty"`
	LocationDetailsEN    string      `json:"location_details_en,omitempty"`
	Floor                any         `json:"floor,omitempty"`
	URLIdentifier        string      `json:"url_identifier,omitempty"`
	URLAlias             string      `json:"url_alias,omitempty"`
	BusinessName         string      `json:"businee_name,omitempty"`
	Meteo                string      `json:"meteo,omitempty"`
	BezeichnungOffiziell string      `json:"bezeichnung_offiziell,omitempty"`
	DisplayName          string      `json:"display_name,omitempty"`
}

// StationStoresResponse is one page of shop records.
type StationStoresResponse struct {
	TotalCount int                   `json:"total_count"`
	Results    []StationStoresResult `json:"results"`
}

func newStationStoresTool(client *opendata.Client) (tools.Descriptor, tools.Handler) {
	desc := tools.Descriptor{
		Name:        "station-stores",
		Description: "Fetch shops in stations with their categories and opening hours",
		InputSchema: schema.ReflectFor[StationStoresParams](),
	}

	handler := func(ctx context.Context, args json.RawMessage) (*tools.Result, error) {
		var p StationStoresParams
		if err := json.Unmarshal(args, &p); err != nil {
			return nil, tools.NewInternalError("decoding arguments", err)
		}
		q := p.RecordQuery.query()
		p.FacetQuery.applyTo(&q)

		var resp StationStoresResponse
		if err := client.Records(ctx, datasetStationStores, q, &resp); err != nil {
			return nil, err
		}
		return render(resp)
	}

	return desc, handler
}
