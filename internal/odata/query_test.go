package odata

import (
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func intPtr(n int) *int { return &n }

func TestNormalizeBaseURL(t *testing.T) {
	tests := []struct {
		name    string
		baseURL string
		want    string
	}{
		{"canonical kept", "https://nimbus.example.com/CoreApi/OData", "https://nimbus.example.com/CoreApi/OData"},
		{"canonical trailing slash stripped", "https://nimbus.example.com/CoreApi/OData/", "https://nimbus.example.com/CoreApi/OData"},
		{"legacy rewritten", "https://nimbus.example.com/ODataApi", "https://nimbus.example.com/CoreApi/OData"},
		{"legacy trailing slash rewritten", "https://nimbus.example.com/ODataApi/", "https://nimbus.example.com/CoreApi/OData"},
		{"lowercase alias kept", "https://nimbus.example.com/odata", "https://nimbus.example.com/odata"},
		{"lowercase alias trailing slash stripped", "https://nimbus.example.com/odata/", "https://nimbus.example.com/odata"},
		{"bare host gets canonical path", "https://nimbus.example.com", "https://nimbus.example.com/CoreApi/OData"},
		{"bare host trailing slash gets canonical path", "https://nimbus.example.com/", "https://nimbus.example.com/CoreApi/OData"},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			assert.Equal(t, tt.want, NormalizeBaseURL(tt.baseURL))
		})
	}
}

func TestQueryURL(t *testing.T) {
	tests := []struct {
		name  string
		query Query
		want  string
	}{
		{
			name:  "top and count",
			query: Query{BaseURL: "https://n.example.com/CoreApi/OData", Entity: "Incidents", Top: intPtr(10), Count: true},
			want:  "https://n.example.com/CoreApi/OData/Incidents?$top=10&$count=true",
		},
		{
			name:  "no parameters",
			query: Query{BaseURL: "https://n.example.com/CoreApi/OData", Entity: "Incidents"},
			want:  "https://n.example.com/CoreApi/OData/Incidents",
		},
		{
			name:  "empty filter omitted",
			query: Query{BaseURL: "https://n.example.com/CoreApi/OData", Entity: "Incidents", Filter: ""},
			want:  "https://n.example.com/CoreApi/OData/Incidents",
		},
		{
			name: "all parameters in fixed order",
			query: Query{
				BaseURL: "https://n.example.com/CoreApi/OData",
				Entity:  "Incidents",
				Top:     intPtr(50),
				Skip:    intPtr(100),
				Filter:  "Status eq 'Open'",
				Select:  "Id,Title",
				Expand:  "AssignedTo",
				OrderBy: "CreatedDate desc",
				Count:   true,
			},
			want: "https://n.example.com/CoreApi/OData/Incidents?$top=50&$skip=100&$filter=Status eq 'Open'&$select=Id,Title&$expand=AssignedTo&$orderby=CreatedDate desc&$count=true",
		},
		{
			name:  "filter passed verbatim without encoding",
			query: Query{BaseURL: "https://n.example.com/CoreApi/OData", Entity: "Reports", Filter: "contains(Name, 'Q1 & Q2')"},
			want:  "https://n.example.com/CoreApi/OData/Reports?$filter=contains(Name, 'Q1 & Q2')",
		},
		{
			name:  "zero top still emitted",
			query: Query{BaseURL: "https://n.example.com/CoreApi/OData", Entity: "Incidents", Top: intPtr(0)},
			want:  "https://n.example.com/CoreApi/OData/Incidents?$top=0",
		},
		{
			name:  "legacy base normalized before assembly",
			query: Query{BaseURL: "https://n.example.com/ODataApi/", Entity: "Incidents", Top: intPtr(5)},
			want:  "https://n.example.com/CoreApi/OData/Incidents?$top=5",
		},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			got, err := tt.query.URL()
			require.NoError(t, err)
			assert.Equal(t, tt.want, got)
		})
	}
}

func TestQueryURLErrors(t *testing.T) {
	_, err := (&Query{Entity: "Incidents"}).URL()
	require.Error(t, err)
	assert.Contains(t, err.Error(), "no base URL")

	_, err = (&Query{BaseURL: "https://n.example.com"}).URL()
	require.Error(t, err)
	assert.Contains(t, err.Error(), "no entity")
}
