package models

// FarmStats aggregates the whole registry.
type FarmStats struct {
	TotalFarms    int64            `json:"totalFarms"`
	ByType        map[string]int64 `json:"byType"`
	TotalTurbines int64            `json:"totalTurbines"`
	TotalPowerMW  float64          `json:"totalPowerMW"`
}

type SummaryFarm struct {
	UUID    string `json:"uuid"`
	Code    string `json:"code"`
	SPV     string `json:"spv"`
	Project string `json:"project"`
	Type    string `json:"type"`
}

type SummaryTechnical struct {
	TurbineCount    int     `json:"turbineCount"`
	TotalPowerMW    float64 `json:"totalPowerMW"`
	Manufacturer    *string `json:"manufacturer"`
	SubstationCount int     `json:"substationCount"`
	WTGCount        int64   `json:"wtgCount"`
}

type SummaryAdministration struct {
	Subsidiary *string `json:"subsidiary"`
}

// FarmSummary is the aggregated single-farm view.
type FarmSummary struct {
	Farm               SummaryFarm             `json:"farm"`
	Status             *FarmStatus             `json:"status"`
	Location           *FarmLocation           `json:"location"`
	Technical          SummaryTechnical        `json:"technical"`
	Administration     SummaryAdministration   `json:"administration"`
	RecentPerformances []FarmActualPerformance `json:"recentPerformances"`
}
