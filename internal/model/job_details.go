package model

import "github.com/shopspring/decimal"

// DefaultServiceIntervalMonths applies to treatment stations created without an interval.
const DefaultServiceIntervalMonths = 12

// JobDetails is the closed set of per-type detail rows. Each variant maps to
// its own table; the JSON shape of a variant is the "details" object of the API.
type JobDetails interface {
	JobType() JobType
	DetailsID() uint
	// Normalize applies the type's invariants after decoding.
	Normalize()
	isJobDetails()
}

// WellDrillingDetails describes a drilled well. Revenue is meters × price per meter.
type WellDrillingDetails struct {
	ID                uint            `gorm:"primaryKey" json:"-"`
	JobID             *uint           `json:"-"`
	Location          *string         `gorm:"column:miejscowosc" json:"miejscowosc"`
	Crew              *string         `gorm:"column:pracownicy" json:"pracownicy"`
	MetersDrilled     *float64        `gorm:"column:ilosc_metrow" json:"ilosc_metrow"`
	StaticWaterLevel  *float64        `gorm:"column:lustro_statyczne" json:"lustro_statyczne"`
	DynamicWaterLevel *float64        `gorm:"column:lustro_dynamiczne" json:"lustro_dynamiczne"`
	YieldRate         *float64        `gorm:"column:wydajnosc" json:"wydajnosc"`
	PricePerMeter     decimal.Decimal `gorm:"column:cena_za_metr;type:numeric(12,2);not null;default:0" json:"cena_za_metr"`
	LaborCost         decimal.Decimal `gorm:"type:numeric(12,2);not null;default:0" json:"labor_cost"`
	CasingCost        decimal.Decimal `gorm:"type:numeric(12,2);not null;default:0" json:"casing_cost"`
	OtherCosts        decimal.Decimal `gorm:"type:numeric(12,2);not null;default:0" json:"other_costs"`
}

func (WellDrillingDetails) TableName() string  { return "well_drilling_details" }
func (*WellDrillingDetails) JobType() JobType  { return JobWellDrilling }
func (d *WellDrillingDetails) DetailsID() uint { return d.ID }
func (*WellDrillingDetails) Normalize()        {}
func (*WellDrillingDetails) isJobDetails()     {}

// ConnectionDetails describes a pump/hydrophore connection to an existing well.
type ConnectionDetails struct {
	ID              uint            `gorm:"primaryKey" json:"-"`
	JobID           *uint           `json:"-"`
	WellDepth       *float64        `json:"well_depth"`
	PumpModel       *string         `json:"pump_model"`
	ControllerModel *string         `json:"controller_model"`
	HydrophoreModel *string         `json:"hydrophore_model"`
	Revenue         decimal.Decimal `gorm:"type:numeric(12,2);not null;default:0" json:"revenue"`
	EquipmentCost   decimal.Decimal `gorm:"type:numeric(12,2);not null;default:0" json:"equipment_cost"`
	LaborCost       decimal.Decimal `gorm:"type:numeric(12,2);not null;default:0" json:"labor_cost"`
	MaterialsCost   decimal.Decimal `gorm:"type:numeric(12,2);not null;default:0" json:"materials_cost"`
	OtherCosts      decimal.Decimal `gorm:"type:numeric(12,2);not null;default:0" json:"other_costs"`
}

func (ConnectionDetails) TableName() string  { return "connection_details" }
func (*ConnectionDetails) JobType() JobType  { return JobConnection }
func (d *ConnectionDetails) DetailsID() uint { return d.ID }
func (*ConnectionDetails) Normalize()        {}
func (*ConnectionDetails) isJobDetails()     {}

// TreatmentStationDetails describes a water treatment installation that needs
// periodic servicing.
type TreatmentStationDetails struct {
	ID                    uint            `gorm:"primaryKey" json:"-"`
	JobID                 *uint           `json:"-"`
	StationModel          *string         `json:"station_model"`
	UVLampModel           *string         `gorm:"column:uv_lamp_model" json:"uv_lamp_model"`
	CarbonFilterModel     *string         `json:"carbon_filter_model"`
	ServiceIntervalMonths int             `gorm:"not null;default:12" json:"service_interval_months"`
	Revenue               decimal.Decimal `gorm:"type:numeric(12,2);not null;default:0" json:"revenue"`
	EquipmentCost         decimal.Decimal `gorm:"type:numeric(12,2);not null;default:0" json:"equipment_cost"`
	LaborCost             decimal.Decimal `gorm:"type:numeric(12,2);not null;default:0" json:"labor_cost"`
	OtherCosts            decimal.Decimal `gorm:"type:numeric(12,2);not null;default:0" json:"other_costs"`
}

func (TreatmentStationDetails) TableName() string  { return "treatment_station_details" }
func (*TreatmentStationDetails) JobType() JobType  { return JobTreatmentStation }
func (d *TreatmentStationDetails) DetailsID() uint { return d.ID }
func (*TreatmentStationDetails) isJobDetails()     {}

func (d *TreatmentStationDetails) Normalize() {
	if d.ServiceIntervalMonths <= 0 {
		d.ServiceIntervalMonths = DefaultServiceIntervalMonths
	}
}

// ServiceDetails describes a service call. Warranty calls carry no revenue or cost.
type ServiceDetails struct {
	ID          uint            `gorm:"primaryKey" json:"-"`
	JobID       *uint           `json:"-"`
	Description *string         `json:"description"`
	IsWarranty  bool            `gorm:"not null;default:false" json:"is_warranty"`
	Revenue     decimal.Decimal `gorm:"type:numeric(12,2);not null;default:0" json:"revenue"`
	LaborCost   decimal.Decimal `gorm:"type:numeric(12,2);not null;default:0" json:"labor_cost"`
}

func (ServiceDetails) TableName() string  { return "service_details" }
func (*ServiceDetails) JobType() JobType  { return JobService }
func (d *ServiceDetails) DetailsID() uint { return d.ID }
func (*ServiceDetails) isJobDetails()     {}

func (d *ServiceDetails) Normalize() {
	if d.IsWarranty {
		d.Revenue = decimal.Zero
		d.LaborCost = decimal.Zero
	}
}
