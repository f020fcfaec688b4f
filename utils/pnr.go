package utils

import (
	"encoding/json"
	"fmt"
	"log"
	"net/http"
	"net/url"
	"time"

	"railporter-server/apperrors"
	"railporter-server/config"
)

// PNRDetails holds the travel data used to prefill a booking form
type PNRDetails struct {
	PNR                string `json:"pnr"`
	TrainNumber        string `json:"train_number"`
	TrainName          string `json:"train_name"`
	Coach              string `json:"coach"`
	BoardingStation    string `json:"boarding_station"`
	BoardingCode       string `json:"boarding_code"`
	DestinationStation string `json:"destination_station"`
	DestinationCode    string `json:"destination_code"`
	DateOfJourney      string `json:"date_of_journey"`
	ArrivalTime        string `json:"arrival_time"`
	Source             string `json:"source"` // "upstream" or "fallback"
}

var pnrHTTPClient = &http.Client{Timeout: 5 * time.Second}

// LookupPNR resolves a PNR to travel details. Upstream failures are never
// fatal: any error degrades to the deterministic local fallback table, and
// the upstream error is only logged.
func LookupPNR(pnr string) PNRDetails {
	details, err := lookupPNRUpstream(pnr)
	if err != nil {
		log.Printf("⚠️ PNR upstream lookup failed, using fallback: %v", err)
		return fallbackPNRDetails(pnr)
	}
	return details
}

// lookupPNRUpstream queries the configured PNR provider
func lookupPNRUpstream(pnr string) (PNRDetails, error) {
	var details PNRDetails

	base := config.AppConfig.PNR.LookupURL
	if base == "" {
		return details, apperrors.NewUpstream("pnr", fmt.Errorf("PNR_LOOKUP_URL not configured"))
	}

	resp, err := pnrHTTPClient.Get(base + "?pnr=" + url.QueryEscape(pnr))
	if err != nil {
		return details, apperrors.NewUpstream("pnr", err)
	}
	defer resp.Body.Close()

	if resp.StatusCode != http.StatusOK {
		return details, apperrors.NewUpstream("pnr", fmt.Errorf("status %d", resp.StatusCode))
	}

	if err := json.NewDecoder(resp.Body).Decode(&details); err != nil {
		return details, apperrors.NewUpstream("pnr", err)
	}

	details.PNR = pnr
	details.Source = "upstream"
	return details, nil
}

// Fallback trains keyed by the PNR's last digit so repeated lookups of the
// same PNR prefill the same details.
var fallbackTrains = []struct {
	number, name, boarding, boardingCode, destination, destinationCode, arrival string
}{
	{"12951", "Mumbai Rajdhani", "Mumbai Central", "MMCT", "New Delhi", "NDLS", "08:32"},
	{"12301", "Howrah Rajdhani", "Howrah Jn", "HWH", "New Delhi", "NDLS", "10:05"},
	{"12621", "Tamil Nadu Express", "Chennai Central", "MAS", "New Delhi", "NDLS", "07:10"},
	{"12009", "Shatabdi Express", "Mumbai Central", "MMCT", "Ahmedabad Jn", "ADI", "13:40"},
	{"12423", "Dibrugarh Rajdhani", "New Delhi", "NDLS", "Dibrugarh", "DBRG", "06:55"},
}

// fallbackPNRDetails returns deterministic details from the local table
func fallbackPNRDetails(pnr string) PNRDetails {
	idx := 0
	if len(pnr) > 0 {
		last := pnr[len(pnr)-1]
		if last >= '0' && last <= '9' {
			idx = int(last-'0') % len(fallbackTrains)
		}
	}
	t := fallbackTrains[idx]

	return PNRDetails{
		PNR:                pnr,
		TrainNumber:        t.number,
		TrainName:          t.name,
		Coach:              "S" + string('1'+byte(idx%4)),
		BoardingStation:    t.boarding,
		BoardingCode:       t.boardingCode,
		DestinationStation: t.destination,
		DestinationCode:    t.destinationCode,
		DateOfJourney:      time.Now().Format("2006-01-02"),
		ArrivalTime:        t.arrival,
		Source:             "fallback",
	}
}
