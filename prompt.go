package sgv

import (
	"bufio"
	"fmt"
	"io"
	"strconv"
	"strings"
	"time"
)

const FirstDoseDateFormat = "02/01/2006"

// Prompter reads interactive selections. Every prompt returns the selected
// value and an ok flag; ok=false means the flow was cancelled (EOF) or the
// input was invalid, with a short message already printed. Callers branch on
// the flag, nothing unwinds.
type Prompter struct {
	reader *bufio.Reader
}

func NewPrompter(r io.Reader) *Prompter {
	prompter := new(Prompter)
	prompter.reader = bufio.NewReader(r)

	return prompter
}

func (p *Prompter) line(prompt string) (string, bool) {
	fmt.Print(prompt)

	input, err := p.reader.ReadString('\n')
	if err != nil && len(input) == 0 {
		return "", false
	}

	return strings.TrimSpace(input), true
}

func (p *Prompter) Group() (Group, bool) {
	fmt.Println("Which group?")
	for _, group := range Groups() {
		fmt.Printf("%d: %s\n", int(group), group)
	}

	input, ok := p.line("")
	if !ok {
		return 0, false
	}

	id, err := strconv.Atoi(input)
	if err != nil {
		fmt.Println("Invalid group ID")
		return 0, false
	}

	group, exists := GroupFromInt(id)
	if !exists {
		fmt.Println("Invalid group ID")
		return 0, false
	}

	fmt.Println(group)
	fmt.Println()

	return group, true
}

func (p *Prompter) SiteCode() (string, bool) {
	code, ok := p.line("Location ID: ")
	if !ok || len(code) == 0 {
		return "", false
	}

	return code, true
}

func (p *Prompter) Dose() (int, bool) {
	input, ok := p.line("1: First Dose\n2: Second Dose\nDose number: ")
	if !ok {
		return 0, false
	}

	dose, err := strconv.Atoi(input)
	if err != nil || (dose != 1 && dose != 2) {
		fmt.Println("Invalid input")
		return 0, false
	}

	return dose, true
}

func (p *Prompter) FirstDoseDate() (time.Time, bool) {
	input, ok := p.line("Date of first dose in DD/MM/YYYY format: ")
	if !ok {
		return time.Time{}, false
	}

	date, err := time.Parse(FirstDoseDateFormat, input)
	if err != nil {
		fmt.Println("Invalid input")
		return time.Time{}, false
	}

	return date, true
}

func (p *Prompter) Date(availability *Availability) (string, bool) {
	fmt.Printf("Dates: %s\n", strings.Join(availability.Dates(), ", "))

	date, ok := p.line("Pick a date from above: ")
	fmt.Println()
	if !ok {
		return "", false
	}

	if _, exists := availability.Get(date); !exists {
		fmt.Println("Invalid choice")
		return "", false
	}

	return date, true
}
