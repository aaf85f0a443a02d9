package sgv

import (
	"strings"
	"time"
)

// Group is the vaccination drive eligibility group, sent to the API as
// patientGroupId.
type Group int

const (
	GroupGeneral Group = iota + 1
	GroupMomForeignWorker
	GroupMoeStudentBelow18
	GroupMoeStudentAbove18
)

var groupNames = map[Group]string{
	GroupGeneral:           "General",
	GroupMomForeignWorker:  "MOM Foreign Worker",
	GroupMoeStudentBelow18: "MOE Student Below 18",
	GroupMoeStudentAbove18: "MOE Student Above 18",
}

func (g Group) String() string {
	if name, exists := groupNames[g]; exists {
		return name
	}

	return "Unknown"
}

func Groups() []Group {
	return []Group{GroupGeneral, GroupMomForeignWorker, GroupMoeStudentBelow18, GroupMoeStudentAbove18}
}

func GroupFromInt(n int) (Group, bool) {
	group := Group(n)
	_, exists := groupNames[group]

	return group, exists
}

type VaccineType int

const (
	VaccinePfizerComirnaty VaccineType = iota + 1
	VaccineModerna
)

var vaccineTypesByName = map[string]VaccineType{
	"Pfizer_Comirnaty": VaccinePfizerComirnaty,
	"Moderna":          VaccineModerna,
}

func (v VaccineType) String() string {
	switch v {
	case VaccinePfizerComirnaty:
		return "Pfizer/Comirnaty"
	case VaccineModerna:
		return "Moderna"
	default:
		return "Unknown"
	}
}

// ParseVaccineType matches the API's raw vaccine name against the known
// types. The raw value uses '/' where the lookup key uses '_'.
func ParseVaccineType(raw string) (VaccineType, error) {
	if vaccineType, exists := vaccineTypesByName[strings.ReplaceAll(raw, "/", "_")]; exists {
		return vaccineType, nil
	}

	return 0, &UnknownVaccineTypeError{Raw: raw}
}

// ParseTimestamp parses the API's slot timestamp format and applies a fixed
// +8h shift. The API labels these timestamps UTC but means Singapore local
// time, so this is a blanket correction rather than a zone conversion.
// Non-string values (including nil) pass through unchanged.
func ParseTimestamp(raw interface{}) (interface{}, error) {
	str, ok := raw.(string)
	if !ok {
		return raw, nil
	}

	parsed, err := time.Parse(SlotTimeFormat, str)
	if err != nil {
		return nil, &MalformedTimestampError{Raw: str, Err: err}
	}

	return parsed.Add(SgUtcOffset), nil
}

// Location is one vaccination site. Built once per API response entry and
// never mutated. hci_code is the stable identifier every availability query
// keys on.
type Location struct {
	Name              string
	HciCode           string
	Address           *string
	Latitude          *float64
	Longitude         *float64
	EarliestSlot      *time.Time
	Priority          *int
	MinInterval       *int
	MaxInterval       *int
	MinClinicInterval *int
	MaxClinicInterval *int
	VaccineType       VaccineType

	client *Client
}

// GetDateSlots fetches this site's open slots using its own hci_code.
func (l *Location) GetDateSlots(firstDoseDate *time.Time) (*Availability, error) {
	return l.client.GetDateSlots(l.HciCode, firstDoseDate)
}

// TimeSlot is one bookable time within a date bucket.
type TimeSlot struct {
	Id          *string
	Time        *time.Time
	HasCapacity bool
}

func BuildLocation(raw map[string]interface{}, client *Client) (*Location, error) {
	name, err := getStringRequired(raw, "name")
	if err != nil {
		return nil, err
	}

	hciCode, err := getStringRequired(raw, "hci_code")
	if err != nil {
		return nil, err
	}

	rawVaccineType, err := getStringRequired(raw, "vaccineType")
	if err != nil {
		return nil, err
	}

	vaccineType, err := ParseVaccineType(rawVaccineType)
	if err != nil {
		return nil, err
	}

	earliestSlot, err := getTimeOptional(raw, "earliestSlot")
	if err != nil {
		return nil, err
	}

	location := &Location{
		Name:              name,
		HciCode:           hciCode,
		Address:           getStringOptional(raw, "address"),
		Latitude:          getFloatOptional(raw, "latitude"),
		Longitude:         getFloatOptional(raw, "longitude"),
		EarliestSlot:      earliestSlot,
		Priority:          getIntOptional(raw, "priority"),
		MinInterval:       getIntOptional(raw, "minInterval"),
		MaxInterval:       getIntOptional(raw, "maxInterval"),
		MinClinicInterval: getIntOptional(raw, "minClinicInterval"),
		MaxClinicInterval: getIntOptional(raw, "maxClinicInterval"),
		VaccineType:       vaccineType,
		client:            client,
	}

	return location, nil
}

func BuildTimeSlot(raw map[string]interface{}) (*TimeSlot, error) {
	hasCapacity, err := getBoolRequired(raw, "hasCapacity")
	if err != nil {
		return nil, err
	}

	slotTime, err := getTimeOptional(raw, "time")
	if err != nil {
		return nil, err
	}

	slot := &TimeSlot{
		Id:          getStringOptional(raw, "id"),
		Time:        slotTime,
		HasCapacity: hasCapacity,
	}

	return slot, nil
}

// Availability maps date strings to their open slots while keeping the
// server's date ordering, which a plain map would lose.
type Availability struct {
	dates []string
	slots map[string][]*TimeSlot
}

func newAvailability() *Availability {
	availability := new(Availability)
	availability.dates = make([]string, 0)
	availability.slots = make(map[string][]*TimeSlot)

	return availability
}

func (a *Availability) add(date string, slots []*TimeSlot) {
	if _, exists := a.slots[date]; !exists {
		a.dates = append(a.dates, date)
	}

	a.slots[date] = slots
}

// Dates returns the date keys in the order the server sent them.
func (a *Availability) Dates() []string {
	return a.dates
}

func (a *Availability) Get(date string) ([]*TimeSlot, bool) {
	slots, exists := a.slots[date]
	return slots, exists
}

func (a *Availability) Len() int {
	return len(a.dates)
}
