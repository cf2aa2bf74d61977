package services

import (
	"encoding/json"
	"errors"
	"math"
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/wndmngr/farmregistry/apperrors"
)

func TestSatelliteParse_CoercesAndDropsUnknown(t *testing.T) {
	fields, err := SatelliteLocation.Parse(map[string]interface{}{
		"country":         "France",
		"arras_toll_eur":  "12.5",
		"nantes_toll_eur": 7.0,
		"not_a_column":    "ignored",
	})
	require.NoError(t, err)
	assert.Equal(t, map[string]interface{}{
		"country":         "France",
		"arras_toll_eur":  12.5,
		"nantes_toll_eur": 7.0,
	}, fields)
}

func TestSatelliteParse_NullAndDates(t *testing.T) {
	fields, err := SatelliteTCMAContract.Parse(map[string]interface{}{
		"contract_type":     nil,
		"effective_date":    "2024-01-31",
		"end_date":          "",
		"compensation_rate": json.Number("0.75"),
	})
	require.NoError(t, err)
	assert.Nil(t, fields["contract_type"])
	assert.Contains(t, fields, "contract_type")
	assert.Equal(t, "2024-01-31", fields["effective_date"])
	assert.Nil(t, fields["end_date"])
	assert.Equal(t, 0.75, fields["compensation_rate"])
}

func TestSatelliteParse_Rejects(t *testing.T) {
	cases := []struct {
		name  string
		sat   Satellite
		input map[string]interface{}
		field string
	}{
		{"null on non-null string", SatelliteLocation, map[string]interface{}{"country": nil}, "location.country"},
		{"number as string field", SatelliteAdministration, map[string]interface{}{"vat_number": 42.0}, "administration.vat_number"},
		{"non numeric string", SatelliteLocation, map[string]interface{}{"arras_toll_eur": "twelve"}, "location.arras_toll_eur"},
		{"null on required number", SatelliteLocation, map[string]interface{}{"arras_toll_eur": nil}, "location.arras_toll_eur"},
		{"bad date", SatelliteOMContract, map[string]interface{}{"contract_end_date": "31/01/2024"}, "om-contract.contract_end_date"},
		{"bool number", SatelliteTCMAContract, map[string]interface{}{"compensation_rate": true}, "tcma-contract.compensation_rate"},
		{"NaN string", SatelliteLocation, map[string]interface{}{"arras_toll_eur": "NaN"}, "location.arras_toll_eur"},
		{"Inf string", SatelliteLocation, map[string]interface{}{"nantes_toll_eur": "Inf"}, "location.nantes_toll_eur"},
		{"signed infinity string", SatelliteTCMAContract, map[string]interface{}{"compensation_rate": "+Infinity"}, "tcma-contract.compensation_rate"},
		{"overflowing json number", SatelliteLocation, map[string]interface{}{"arras_round_trip_distance_km": json.Number("1e400")}, "location.arras_round_trip_distance_km"},
		{"NaN float", SatelliteLocation, map[string]interface{}{"arras_toll_eur": math.NaN()}, "location.arras_toll_eur"},
	}
	for _, tc := range cases {
		t.Run(tc.name, func(t *testing.T) {
			_, err := tc.sat.Parse(tc.input)
			require.Error(t, err)
			assert.True(t, errors.Is(err, apperrors.ErrValidation))
			assert.Contains(t, err.Error(), tc.field)
		})
	}
}

func TestSatelliteByName(t *testing.T) {
	for _, s := range Satellites {
		got, ok := SatelliteByName(s.Name)
		require.True(t, ok, s.Name)
		assert.Equal(t, s.KeyColumn, got.KeyColumn)
	}
	_, ok := SatelliteByName("status")
	assert.False(t, ok)
}
