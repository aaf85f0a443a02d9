package sgv

import (
	"crypto/sha256"
	"encoding/hex"
	"fmt"
	"net/smtp"
	"os"
	"path/filepath"
	"sort"
	"strings"
	"time"
)

const DefaultSubject = "SG Vaccines - Notification"

var config *Config

func Run(args []string) {
	var err error

	config, err = NewConfigDefaultPath()
	if err != nil {
		Log.Errorf("Can't read config: %v", err)
		panic(err)
	}

	if _, err = os.Stat(config.DumpDir); config.DumpOutput && err != nil {
		err := os.Mkdir(config.DumpDir, 0755)
		if err != nil {
			Log.Errorf("Can't create dump dir: %s", config.DumpDir)
			panic(err)
		}
	}

	client := NewClient(config)

	if len(args) > 1 {
		switch args[1] {
		case "watch":
			if len(args) > 2 {
				var firstDoseDate *time.Time
				if len(args) > 3 {
					parsed, err := time.Parse(FirstDoseDateFormat, args[3])
					if err != nil {
						fmt.Println("Invalid first dose date, expecting DD/MM/YYYY")
						os.Exit(2)
					}
					firstDoseDate = &parsed
				}

				runWatch(client, args[2], firstDoseDate)
				return
			}
			fallthrough
		default:
			printUsageAndExit(args)
		}
		return
	}

	runInteractive(client, NewPrompter(os.Stdin))
}

func runInteractive(client *Client, prompter *Prompter) {
	group, ok := prompter.Group()
	if !ok {
		return
	}

	locations, err := client.GetLocations(group, nil)
	if err != nil {
		Log.Errorf("%v", err)
		return
	}

	sortLocationsByEarliestSlot(locations)

	header := []string{"Location", "ID", "Earliest Slot", "Vaccine Type"}
	rows := make([][]string, 0, len(locations))
	for _, location := range locations {
		rows = append(rows, []string{
			location.Name,
			location.HciCode,
			formatEarliestSlot(location.EarliestSlot),
			location.VaccineType.String(),
		})
	}
	PrintTable(os.Stdout, header, rows)
	fmt.Println()

	hciCode, ok := prompter.SiteCode()
	if !ok {
		return
	}

	dose, ok := prompter.Dose()
	if !ok {
		return
	}

	var firstDoseDate *time.Time
	if dose == 2 {
		date, ok := prompter.FirstDoseDate()
		if !ok {
			return
		}
		firstDoseDate = &date
	}

	availability, err := client.GetDateSlots(hciCode, firstDoseDate)
	if err != nil {
		Log.Errorf("%v", err)
		return
	}

	if availability.Len() == 0 {
		fmt.Println("No available timeslots")
		return
	}

	date, ok := prompter.Date(availability)
	if !ok {
		return
	}

	slots, _ := availability.Get(date)
	slotRows := make([][]string, 0, len(slots))
	for _, slot := range slots {
		slotRows = append(slotRows, []string{formatSlotTime(slot.Time), formatCapacity(slot.HasCapacity)})
	}
	PrintTable(os.Stdout, []string{"Time", "Availability"}, slotRows)
}

// runWatch polls one site's availability and reports status transitions.
// Read-only, one request per poll, no booking.
func runWatch(client *Client, hciCode string, firstDoseDate *time.Time) {
	if config.PollInterval < 10 || config.PollInterval > 86400 {
		panic(fmt.Errorf("Poll interval must be between 10 and 86400 seconds, configured: %d", config.PollInterval))
	}

	//watch always hits the API, never the cache
	client.CacheTTL = 0

	tracker := NewChangeTracker([]string{hciCode})

	Log.Infof("Watching %s every %d seconds...", hciCode, config.PollInterval)

	for {
		availability, err := client.GetDateSlots(hciCode, firstDoseDate)
		if err != nil {
			Log.Errorf("%s: %v", hciCode, err)
			tracker.Error(hciCode, err)
		} else {
			status := AvailabilityStatus(availability)
			Log.Debugf("%s: status %s over %d date(s)", hciCode, status, availability.Len())

			if tracker.Update(hciCode, status) {
				Log.Infof("%s: availability changed to %s", hciCode, status)
				if err := notifyChange(hciCode, status); err != nil {
					Log.Errorf("%+v", err)
				}
			}
		}

		time.Sleep(time.Duration(config.PollInterval) * time.Second)
	}
}

func sortLocationsByEarliestSlot(locations []*Location) {
	sort.SliceStable(locations, func(i, j int) bool {
		a := locations[i].EarliestSlot
		b := locations[j].EarliestSlot
		if a == nil {
			return false
		}
		if b == nil {
			return true
		}
		return a.Before(*b)
	})
}

func formatEarliestSlot(t *time.Time) string {
	if t == nil {
		return ""
	}

	return t.Format("02/01/2006 1504") + "h"
}

func formatSlotTime(t *time.Time) string {
	if t == nil {
		return ""
	}

	return t.Format("1504") + "h"
}

func formatCapacity(hasCapacity bool) string {
	if hasCapacity {
		return "Available"
	}

	return "Full"
}

// dumpOutput writes a raw response body that failed normalization to the
// dump dir and/or S3 so the API shape change can be diagnosed later.
func dumpOutput(name string, hciCode string, body []byte) (url string) {
	if config == nil || body == nil || (!config.DumpOutput && !config.DumpOutputS3) {
		return ""
	}

	if len(hciCode) > 0 {
		name = fmt.Sprintf("%s.%s", name, hciCode)
	}

	hashBytes := sha256.Sum256(body)
	hash := hex.EncodeToString(hashBytes[:])
	fileName := fmt.Sprintf("%s.%s.out", name, hash)

	if config.DumpOutputS3 {
		if HasAWSCredentials() {
			var err error
			url, err = PutS3Object(S3DumpBucket, fileName, body)
			if err != nil {
				Log.Warnf("%v", err)
			} else {
				Log.Debugf("Sent %d bytes to S3: %s", len(body), url)
			}
		} else {
			Log.Warnf("Configured to send dumps to S3 but no AWS credentials were found")
		}
	}

	if config.DumpOutput {
		filePath := filepath.Join(config.DumpDir, fileName)

		if _, err := os.Stat(filePath); err == nil {
			//same body already dumped
			return url
		}

		if err := os.WriteFile(filePath, body, 0644); err != nil {
			Log.Warnf("%v", err)
		}

		Log.Debugf("Wrote %d bytes to file: %s", len(body), filePath)
	}

	return url
}

func notifyChange(hciCode string, status SiteStatus) error {
	subject := DefaultSubject
	body := fmt.Sprintf("Detected change: %s, new status: %v", hciCode, status)

	return sendEmail(subject, body)
}

func sendEmail(subject string, body string) error {
	if len(config.SmtpHost) == 0 {
		return nil
	}

	Log.Infof("Subject: %s", subject)
	Log.Infof("Body: %s", body)

	sb := strings.Builder{}
	sb.WriteString(fmt.Sprintf("Subject: %s\r\n", subject))
	sb.WriteString("\r\n")
	sb.WriteString(body)

	auth := smtp.PlainAuth("", config.SmtpUsername, config.SmtpPassword, config.SmtpHost)

	err := smtp.SendMail(fmt.Sprintf("%s:%d", config.SmtpHost, config.SmtpPort), auth, config.FromEmailAddress, config.NotifyEmailAddrs, []byte(sb.String()))

	if err != nil {
		Log.Errorf("sendEmail: %+v", err)
	}

	return err
}

func printUsageAndExit(args []string) {
	exeName := filepath.Base(args[0])
	fmt.Printf("Usage: %s [watch <hci_code> [first_dose_date]]\n", exeName)
	os.Exit(0)
}
