package sgv

import "time"

const DateFormat = "2006-01-02"
const SlotTimeFormat = "2006-01-02T15:04:05.000000Z"

const SgTimezone = "Asia/Singapore"
const SgUtcOffset = 8 * time.Hour

func sgNow() time.Time {
	loc, err := time.LoadLocation(SgTimezone)
	if err != nil {
		//no tz database on this host
		loc = time.FixedZone("SGT", int(SgUtcOffset/time.Second))
	}

	return time.Now().In(loc)
}

// DateWindow computes the (startDate, endDate) pair bounding an availability
// query, formatted for direct substitution into the routes.
//
// A nil reference means "looking for a first dose from today" (Singapore
// time). A non-nil reference with firstDose=false is the date the first dose
// was taken.
func DateWindow(reference *time.Time, firstDose bool) (string, string) {
	var ref time.Time
	if reference == nil {
		ref = sgNow()
	} else {
		ref = *reference
	}

	return dateWindowAt(ref, firstDose)
}

func dateWindowAt(ref time.Time, firstDose bool) (string, string) {
	var start, end time.Time

	if firstDose {
		start = ref.AddDate(0, 0, 1)
		//three months out, padded by (31 - day) toward the end of the month.
		//this is the window the official booking page requests.
		end = start.AddDate(0, 3, 31-ref.Day())
	} else {
		start = ref.AddDate(0, 0, 42)
		end = start.AddDate(0, 0, 14)
	}

	return start.Format(DateFormat), end.Format(DateFormat)
}
