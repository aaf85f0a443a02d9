package sgv

import (
	"fmt"
	"sync"
	"time"
)

// SiteStatus summarizes a site's availability for change tracking.
type SiteStatus string

const (
	SiteStatusOpen    SiteStatus = "Open"    //at least one slot with capacity
	SiteStatusFull    SiteStatus = "Full"    //slots listed, none with capacity
	SiteStatusNone    SiteStatus = "None"    //no dates returned
	SiteStatusUnknown SiteStatus = "Unknown" //not observed yet
)

func AvailabilityStatus(availability *Availability) SiteStatus {
	if availability.Len() == 0 {
		return SiteStatusNone
	}

	for _, date := range availability.Dates() {
		slots, _ := availability.Get(date)
		for _, slot := range slots {
			if slot.HasCapacity {
				return SiteStatusOpen
			}
		}
	}

	return SiteStatusFull
}

// ChangeTracker remembers the last observed status per site so watch mode
// only reports transitions.
type ChangeTracker struct {
	lastStatus map[string]SiteStatus
	lastPoll   map[string]int64
	errorCount map[string]int
	mutex      *sync.Mutex
}

func NewChangeTracker(hciCodes []string) *ChangeTracker {
	changeTracker := new(ChangeTracker)
	changeTracker.lastStatus = make(map[string]SiteStatus)
	changeTracker.lastPoll = make(map[string]int64)
	changeTracker.errorCount = make(map[string]int)
	changeTracker.mutex = &sync.Mutex{}

	for _, hciCode := range hciCodes {
		changeTracker.lastStatus[hciCode] = SiteStatusUnknown
		changeTracker.lastPoll[hciCode] = 0
		changeTracker.errorCount[hciCode] = 0
	}

	return changeTracker
}

func (t *ChangeTracker) Error(hciCode string, err error) int {
	t.mutex.Lock()
	defer t.mutex.Unlock()

	t.lastPoll[hciCode] = time.Now().Unix()

	prevErrorCount, ok := t.errorCount[hciCode]
	if !ok {
		panic(fmt.Errorf("Site not found in change tracker: %s", hciCode))
	}

	t.errorCount[hciCode] = prevErrorCount + 1

	return t.errorCount[hciCode]
}

// Update records the new status and reports whether it changed. The first
// observation after Unknown does not count as a change.
func (t *ChangeTracker) Update(hciCode string, status SiteStatus) bool {
	t.mutex.Lock()
	defer t.mutex.Unlock()

	prevStatus, ok := t.lastStatus[hciCode]
	if !ok {
		panic(fmt.Errorf("Site not found in change tracker: %s", hciCode))
	}

	t.errorCount[hciCode] = 0
	t.lastPoll[hciCode] = time.Now().Unix()

	if status == SiteStatusUnknown || prevStatus == status {
		return false
	}

	t.lastStatus[hciCode] = status

	return prevStatus != SiteStatusUnknown
}

func (t *ChangeTracker) LastPoll(hciCode string) int64 {
	t.mutex.Lock()
	defer t.mutex.Unlock()

	lastPoll, ok := t.lastPoll[hciCode]
	if ok {
		return lastPoll
	}

	return 0
}
