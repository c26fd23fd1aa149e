package sbb

import (
	"context"
	"encoding/json"

	"odmcp/internal/opendata"
	"odmcp/internal/schema"
	"odmcp/internal/tools"
)

// TrafficInfoParams are the arguments of the rail-traffic-info tool.
type TrafficInfoParams struct {
	RecordQuery
	FacetQuery
	Timezone string `json:"timezone,omitempty" jsonschema:"default=UTC,description=Timezone for validity and publication times such as Europe/Zurich"`
}

// TrafficInfoResult is one rail traffic disruption notice.
type TrafficInfoResult struct {
	Title           string `json:"title,omitempty"`
	Link            string `json:"link,omitempty"`
	Description     string `json:"description,omitempty"`
	Published       string `json:"published,omitempty"`
	Author          string `json:"author,omitempty"`
	ValidityBegin   string `json:"validitybegin,omitempty"`
	ValidityEnd     string `json:"validityend,omitempty"`
	DescriptionHTML string `json:"description_html,omitempty"`
}

// TrafficInfoResponse is one page of traffic info records.
type TrafficInfoResponse struct {
	TotalCount int                 `json:"total_count"`
	Results    []TrafficInfoResult `json:"results"`
}

func newTrafficInfoTool(client *opendata.Client) (tools.Descriptor, tools.Handler) {
	desc := tools.Descriptor{
		Name:        "rail-traffic-info",
		Description: "Fetch rail traffic information such as current disruptions and construction notices",
		InputSchema: schema.ReflectFor[TrafficInfoParams](),
	}

	handler := func(ctx context.Context, args json.RawMessage) (*tools.Result, error) {
		var p TrafficInfoParams
		if err := json.Unmarshal(args, &p); err != nil {
			return nil, tools.NewInternalError("decoding arguments", err)
		}
		q := p.RecordQuery.query()
		p.FacetQuery.applyTo(&q)
		q.Timezone = p.Timezone

		var resp TrafficInfoResponse
		if err := client.Records(ctx, datasetTrafficInfo, q, &resp); err != nil {
			return nil, err
		}
		return render(resp)
	}

	return desc, handler
}
