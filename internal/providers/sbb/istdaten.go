package sbb

import (
	"context"
	"encoding/json"

	"odmcp/internal/opendata"
	"odmcp/internal/schema"
	"odmcp/internal/tools"
)

// TargetActualParams are the arguments of the target-actual-compared tool.
type TargetActualParams struct {
	RecordQuery
	FacetQuery
}

// TargetActualResult is one scheduled-versus-actual journey record.
type TargetActualResult struct {
	Betriebstag        string      `json:"betriebstag,omitempty"`
	FahrtBezeichner    string      `json:"fahrt_bezeichner,omitempty"`
	BetreiberID        string      `json:"betreiber_id,omitempty"`
	BetreiberAbk       string      `json:"betreiber_abk,omitempty"`
	BetreiberName      string      `json:"betreiber_name,omitempty"`
	ProduktID          string      `json:"produkt_id,omitempty"`
	LinienID           int         `json:"linien_id,omitempty"`
	LinienText         string      `json:"linien_text,omitempty"`
	UmlaufID           string      `json:"umlauf_id,omitempty"`
	VerkehrsmittelText string      `json:"verkehrsmittel_text,omitempty"`
	ZusatzfahrtTf      bool        `json:"zusatzfahrt_tf,omitempty"`
	FaelltAusTf        bool        `json:"faellt_aus_tf,omitempty"`
	Bpuic              int         `json:"bpuic,omitempty"`
	HaltestellenName   string      `json:"haltestellen_name,omitempty"`
	Ankunftszeit       string      `json:"ankunftszeit,omitempty"`
	AnPrognose         string      `json:"an_prognose,omitempty"`
	AnPrognoseStatus   string      `json:"an_prognose_status,omitempty"`
	Abfahrtszeit       string      `json:"abfahrtszeit,omitempty"`
	AbPrognose         string      `json:"ab_prognose,omitempty"`
	AbPrognoseStatus   string      `json:"ab_prognose_status,omitempty"`
	DurchfahrtTf       bool        `json:"durchfahrt_tf,omitempty"`
	Ankunftsverspatung bool        `json:"ankunftsverspatung,omitempty"`
	Abfahrtsverspatung bool        `json:"abfahrtsverspatung,omitempty"`
	Geopos             *GeoPoint2D `json:"geopos,omitempty"`
	Lod                string      `json:"lod,omitempty"`
}

// TargetActualResponse is one page of journey comparison records.
type TargetActualResponse struct {
	TotalCount int                  `json:"total_count"`
	Results    []TargetActualResult `json:"results"`
}

func newTargetActualTool(client *opendata.Client) (tools.Descriptor, tools.Handler) {
	desc := tools.Descriptor{
		Name:        "target-actual-compared",
		Description: "Fetch scheduled versus actual journey times including delays and cancellations",
		InputSchema: schema.ReflectFor[TargetActualParams](),
	}

	handler := func(ctx context.Context, args json.RawMessage) (*tools.Result, error) {
		var p TargetActualParams
		if err := json.Unmarshal(args, &p); err != nil {
			return nil, tools.NewInternalError("decoding arguments", err)
		}
		q := p.RecordQuery.query()
		p.FacetQuery.applyTo(&q)

		var resp TargetActualResponse
		if err := client.Records(ctx, datasetIstDaten, q, &resp); err != nil {
			return nil, err
		}
		return render(resp)
	}

	return desc, handler
}
