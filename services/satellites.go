package services

import (
	"encoding/json"
	"math"
	"sort"
	"strconv"
	"strings"
	"time"

	"github.com/wndmngr/farmregistry/apperrors"
	"github.com/wndmngr/farmregistry/models"
)

// FieldKind describes how a satellite attribute is validated and coerced.
type FieldKind int

const (
	FieldString FieldKind = iota
	FieldNullableString
	FieldNumber
	FieldNullableNumber
	FieldDate
)

const dateLayout = "2006-01-02"

// Satellite describes one editable one-to-one table attached to a farm.
type Satellite struct {
	// Name is the URL segment and metric label.
	Name      string
	KeyColumn string
	Fields    map[string]FieldKind
	newModel  func() interface{}
}

// Model returns a pointer to an empty row struct for gorm.
func (s Satellite) Model() interface{} {
	return s.newModel()
}

var (
	SatelliteLocation = Satellite{
		Name:      "location",
		KeyColumn: "uuid",
		newModel:  func() interface{} { return &models.FarmLocation{} },
		Fields: map[string]FieldKind{
			"country":                      FieldString,
			"region":                       FieldString,
			"department":                   FieldString,
			"municipality":                 FieldString,
			"map_reference":                FieldString,
			"arras_round_trip_distance_km": FieldNumber,
			"vertou_round_trip_duration_h": FieldNumber,
			"arras_toll_eur":               FieldNumber,
			"nantes_toll_eur":              FieldNumber,
		},
	}
	SatelliteAdministration = Satellite{
		Name:      "administration",
		KeyColumn: "uuid",
		newModel:  func() interface{} { return &models.FarmAdministration{} },
		Fields: map[string]FieldKind{
			"siret_number":           FieldNullableString,
			"vat_number":             FieldNullableString,
			"account_number":         FieldNullableString,
			"legal_representative":   FieldNullableString,
			"head_office_address":    FieldNullableString,
			"windmanager_subsidiary": FieldString,
		},
	}
	SatelliteEnvironmentalInstallation = Satellite{
		Name:      "environmental-installation",
		KeyColumn: "farm_uuid",
		newModel:  func() interface{} { return &models.FarmEnvironmentalInstallation{} },
		Fields: map[string]FieldKind{
			"aip_number":         FieldNullableString,
			"prefecture_name":    FieldNullableString,
			"prefecture_address": FieldNullableString,
			"duty_dreal_contact": FieldNullableString,
		},
	}
	SatelliteOMContract = Satellite{
		Name:      "om-contract",
		KeyColumn: "farm_uuid",
		newModel:  func() interface{} { return &models.FarmOMContract{} },
		Fields: map[string]FieldKind{
			"service_contract_type": FieldNullableString,
			"contract_end_date":     FieldDate,
		},
	}
	SatelliteTCMAContract = Satellite{
		Name:      "tcma-contract",
		KeyColumn: "farm_uuid",
		newModel:  func() interface{} { return &models.FarmTCMAContract{} },
		Fields: map[string]FieldKind{
			"contract_type":             FieldNullableString,
			"tcma_status":               FieldNullableString,
			"effective_date":            FieldDate,
			"end_date":                  FieldDate,
			"signature_date":            FieldDate,
			"beginning_of_remuneration": FieldDate,
			"compensation_rate":         FieldNullableNumber,
		},
	}
)

// Satellites lists the editable satellites in route order.
var Satellites = []Satellite{
	SatelliteLocation,
	SatelliteAdministration,
	SatelliteEnvironmentalInstallation,
	SatelliteOMContract,
	SatelliteTCMAContract,
}

func SatelliteByName(name string) (Satellite, bool) {
	for _, s := range Satellites {
		if s.Name == name {
			return s, true
		}
	}
	return Satellite{}, false
}

// Parse validates a decoded JSON object against the satellite's fields and returns column/value
// pairs. Unknown keys are dropped. Explicit nulls are kept for nullable fields so they clear the column.
func (s Satellite) Parse(input map[string]interface{}) (map[string]interface{}, error) {
	keys := make([]string, 0, len(input))
	for k := range input {
		keys = append(keys, k)
	}
	// deterministic error reporting
	sort.Strings(keys)

	out := make(map[string]interface{}, len(input))
	for _, key := range keys {
		kind, ok := s.Fields[key]
		if !ok {
			continue
		}
		value, err := coerce(kind, input[key])
		if err != nil {
			return nil, apperrors.Validation("invalid %s.%s: %s", s.Name, key, err.Error())
		}
		out[key] = value
	}
	return out, nil
}

type fieldError string

func (e fieldError) Error() string { return string(e) }

func coerce(kind FieldKind, raw interface{}) (interface{}, error) {
	switch kind {
	case FieldString, FieldNullableString:
		if raw == nil {
			if kind == FieldNullableString {
				return nil, nil
			}
			return nil, fieldError("expected string, received null")
		}
		str, ok := raw.(string)
		if !ok {
			return nil, fieldError("expected string")
		}
		return str, nil

	case FieldNumber, FieldNullableNumber:
		n, isNull, err := toNumber(raw)
		if err != nil {
			return nil, err
		}
		if isNull {
			if kind == FieldNullableNumber {
				return nil, nil
			}
			return nil, fieldError("expected number, received null")
		}
		return n, nil

	case FieldDate:
		if raw == nil {
			return nil, nil
		}
		str, ok := raw.(string)
		if !ok {
			return nil, fieldError("expected date string YYYY-MM-DD")
		}
		str = strings.TrimSpace(str)
		if str == "" {
			return nil, nil
		}
		if _, err := time.Parse(dateLayout, str); err != nil {
			return nil, fieldError("expected date string YYYY-MM-DD")
		}
		return str, nil
	}
	return nil, fieldError("unsupported field")
}

// toNumber accepts finite JSON numbers and numeric strings. An empty string counts as null.
func toNumber(raw interface{}) (float64, bool, error) {
	n, isNull, err := parseNumber(raw)
	if err == nil && !isNull && (math.IsNaN(n) || math.IsInf(n, 0)) {
		return 0, false, fieldError("expected number")
	}
	return n, isNull, err
}

func parseNumber(raw interface{}) (float64, bool, error) {
	switch v := raw.(type) {
	case nil:
		return 0, true, nil
	case float64:
		return v, false, nil
	case int:
		return float64(v), false, nil
	case json.Number:
		f, err := v.Float64()
		if err != nil {
			return 0, false, fieldError("expected number")
		}
		return f, false, nil
	case string:
		s := strings.TrimSpace(v)
		if s == "" {
			return 0, true, nil
		}
		f, err := strconv.ParseFloat(s, 64)
		if err != nil {
			return 0, false, fieldError("expected number")
		}
		return f, false, nil
	}
	return 0, false, fieldError("expected number")
}
