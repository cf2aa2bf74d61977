package models

// One-to-one satellite tables. The first four share the farm's primary key space (column uuid),
// the contract/installation tables reference the farm through farm_uuid.

type FarmLocation struct {
	UUID                     string   `gorm:"column:uuid;primaryKey;size:36" json:"uuid"`
	FarmCode                 string   `gorm:"column:farm_code" json:"farm_code"`
	Country                  *string  `gorm:"column:country" json:"country"`
	Region                   *string  `gorm:"column:region" json:"region"`
	Department               *string  `gorm:"column:department" json:"department"`
	Municipality             *string  `gorm:"column:municipality" json:"municipality"`
	MapReference             *string  `gorm:"column:map_reference" json:"map_reference"`
	ArrasRoundTripDistanceKm *float64 `gorm:"column:arras_round_trip_distance_km" json:"arras_round_trip_distance_km"`
	VertouRoundTripDurationH *float64 `gorm:"column:vertou_round_trip_duration_h" json:"vertou_round_trip_duration_h"`
	ArrasTollEUR             *float64 `gorm:"column:arras_toll_eur" json:"arras_toll_eur"`
	NantesTollEUR            *float64 `gorm:"column:nantes_toll_eur" json:"nantes_toll_eur"`
}

func (FarmLocation) TableName() string { return "farm_locations" }

type FarmStatus struct {
	UUID       string  `gorm:"column:uuid;primaryKey;size:36" json:"uuid"`
	FarmCode   string  `gorm:"column:farm_code" json:"farm_code"`
	FarmStatus *string `gorm:"column:farm_status" json:"farm_status"`
	TCMAStatus *string `gorm:"column:tcma_status" json:"tcma_status"`
}

func (FarmStatus) TableName() string { return "farm_statuses" }

type FarmTurbineDetail struct {
	UUID                  string   `gorm:"column:uuid;primaryKey;size:36" json:"uuid"`
	FarmCode              string   `gorm:"column:farm_code" json:"farm_code"`
	TurbineCount          *int     `gorm:"column:turbine_count" json:"turbine_count"`
	Manufacturer          *string  `gorm:"column:manufacturer" json:"manufacturer"`
	HubHeightM            *float64 `gorm:"column:hub_height_m" json:"hub_height_m"`
	RotorDiameterM        *float64 `gorm:"column:rotor_diameter_m" json:"rotor_diameter_m"`
	RatedPowerInstalledMW *float64 `gorm:"column:rated_power_installed_mw" json:"rated_power_installed_mw"`
	TotalMMW              *float64 `gorm:"column:total_mmw" json:"total_mmw"`
}

func (FarmTurbineDetail) TableName() string { return "farm_turbine_details" }

type FarmAdministration struct {
	UUID                  string  `gorm:"column:uuid;primaryKey;size:36" json:"uuid"`
	FarmCode              string  `gorm:"column:farm_code" json:"farm_code"`
	SIRETNumber           *string `gorm:"column:siret_number" json:"siret_number"`
	VATNumber             *string `gorm:"column:vat_number" json:"vat_number"`
	AccountNumber         *string `gorm:"column:account_number" json:"account_number"`
	LegalRepresentative   *string `gorm:"column:legal_representative" json:"legal_representative"`
	HeadOfficeAddress     *string `gorm:"column:head_office_address" json:"head_office_address"`
	WindmanagerSubsidiary *string `gorm:"column:windmanager_subsidiary" json:"windmanager_subsidiary"`
}

func (FarmAdministration) TableName() string { return "farm_administrations" }

type FarmEnvironmentalInstallation struct {
	FarmUUID          string  `gorm:"column:farm_uuid;primaryKey;size:36" json:"farm_uuid"`
	FarmCode          string  `gorm:"column:farm_code" json:"farm_code"`
	AIPNumber         *string `gorm:"column:aip_number" json:"aip_number"`
	PrefectureName    *string `gorm:"column:prefecture_name" json:"prefecture_name"`
	PrefectureAddress *string `gorm:"column:prefecture_address" json:"prefecture_address"`
	DutyDREALContact  *string `gorm:"column:duty_dreal_contact" json:"duty_dreal_contact"`
}

func (FarmEnvironmentalInstallation) TableName() string { return "farm_environmental_installations" }

type FarmOMContract struct {
	FarmUUID            string  `gorm:"column:farm_uuid;primaryKey;size:36" json:"farm_uuid"`
	FarmCode            string  `gorm:"column:farm_code" json:"farm_code"`
	ServiceContractType *string `gorm:"column:service_contract_type" json:"service_contract_type"`
	ContractEndDate     *string `gorm:"column:contract_end_date" json:"contract_end_date"`
}

func (FarmOMContract) TableName() string { return "farm_om_contracts" }

type FarmTCMAContract struct {
	FarmUUID                string   `gorm:"column:farm_uuid;primaryKey;size:36" json:"farm_uuid"`
	FarmCode                string   `gorm:"column:farm_code" json:"farm_code"`
	ContractType            *string  `gorm:"column:contract_type" json:"contract_type"`
	TCMAStatus              *string  `gorm:"column:tcma_status" json:"tcma_status"`
	EffectiveDate           *string  `gorm:"column:effective_date" json:"effective_date"`
	EndDate                 *string  `gorm:"column:end_date" json:"end_date"`
	SignatureDate           *string  `gorm:"column:signature_date" json:"signature_date"`
	BeginningOfRemuneration *string  `gorm:"column:beginning_of_remuneration" json:"beginning_of_remuneration"`
	CompensationRate        *float64 `gorm:"column:compensation_rate" json:"compensation_rate"`
}

func (FarmTCMAContract) TableName() string { return "farm_tcma_contracts" }

// Many-per-farm dependents.

type FarmActualPerformance struct {
	ID       uint     `gorm:"primaryKey;autoIncrement" json:"id"`
	FarmUUID string   `gorm:"column:farm_uuid;index;not null;size:36" json:"farm_uuid"`
	FarmCode string   `gorm:"column:farm_code" json:"farm_code"`
	Year     int      `gorm:"column:year;not null" json:"year"`
	Amount   *float64 `gorm:"column:amount" json:"amount"`
}

func (FarmActualPerformance) TableName() string { return "farm_actual_performances" }

type Substation struct {
	UUID           string  `gorm:"column:uuid;primaryKey;size:36" json:"uuid"`
	FarmUUID       string  `gorm:"column:farm_uuid;index;not null;size:36" json:"farm_uuid"`
	FarmCode       string  `gorm:"column:farm_code" json:"farm_code"`
	SubstationName *string `gorm:"column:substation_name" json:"substation_name"`
}

func (Substation) TableName() string { return "substations" }

type WindTurbineGenerator struct {
	UUID         string  `gorm:"column:uuid;primaryKey;size:36" json:"uuid"`
	FarmUUID     string  `gorm:"column:farm_uuid;index;not null;size:36" json:"farm_uuid"`
	FarmCode     string  `gorm:"column:farm_code" json:"farm_code"`
	SerialNumber *string `gorm:"column:serial_number" json:"serial_number"`
}

func (WindTurbineGenerator) TableName() string { return "wind_turbine_generators" }
