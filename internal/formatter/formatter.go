// package formatter renders devices and timer settings as text or CSV for CLI output
package formatter

import (
	"bytes"
	"encoding/csv"
	"fmt"
	"strconv"
	"strings"

	"github.com/desertthunder/pomo/internal/models"
	"github.com/desertthunder/pomo/internal/session"
)

// DevicesToCSV converts devices to CSV with columns: ID, Name, Type, Active, Restricted, Volume
func DevicesToCSV(devices []models.Device) ([]byte, error) {
	var buf bytes.Buffer
	writer := csv.NewWriter(&buf)

	headers := []string{"ID", "Name", "Type", "Active", "Restricted", "Volume"}
	if err := writer.Write(headers); err != nil {
		return nil, fmt.Errorf("failed to write CSV headers: %w", err)
	}

	for _, d := range devices {
		volume := ""
		if d.VolumePercent != nil {
			volume = strconv.Itoa(*d.VolumePercent)
		}
		record := []string{d.ID, d.Name, d.Type, strconv.FormatBool(d.IsActive), strconv.FormatBool(d.IsRestricted), volume}
		if err := writer.Write(record); err != nil {
			return nil, fmt.Errorf("failed to write CSV record: %w", err)
		}
	}

	writer.Flush()
	if err := writer.Error(); err != nil {
		return nil, fmt.Errorf("CSV writer error: %w", err)
	}
	return buf.Bytes(), nil
}

// DevicesToText renders a numbered device list, marking the device playback would target.
func DevicesToText(devices []models.Device, target string) []byte {
	var buf bytes.Buffer

	if len(devices) == 0 {
		buf.WriteString("No devices found. Open Spotify on a phone, computer, or speaker first.\n")
		return buf.Bytes()
	}

	fmt.Fprintf(&buf, "Found %d devices:\n\n", len(devices))
	for i, d := range devices {
		marker := " "
		if d.ID == target {
			marker = "→"
		}
		fmt.Fprintf(&buf, "%s %d. %s (%s)\n", marker, i+1, d.Name, d.Type)
		fmt.Fprintf(&buf, "     ID: %s\n", d.ID)

		var status []string
		if d.IsActive {
			status = append(status, "active")
		}
		if d.IsRestricted {
			status = append(status, "restricted")
		}
		if d.VolumePercent != nil {
			status = append(status, fmt.Sprintf("volume %d%%", *d.VolumePercent))
		}
		if len(status) > 0 {
			fmt.Fprintf(&buf, "     Status: %s\n", strings.Join(status, ", "))
		}
	}
	return buf.Bytes()
}

// SettingsToText renders the persisted durations in minutes and seconds.
func SettingsToText(snap session.Snapshot, store string) []byte {
	var buf bytes.Buffer
	fmt.Fprintf(&buf, "Work:  %s (%ds)\n", minutes(snap.Work), snap.Work)
	fmt.Fprintf(&buf, "Break: %s (%ds)\n", minutes(snap.Break), snap.Break)
	if store != "" {
		fmt.Fprintf(&buf, "Store: %s\n", store)
	}
	return buf.Bytes()
}

func minutes(seconds int) string {
	if seconds%60 == 0 {
		return fmt.Sprintf("%d min", seconds/60)
	}
	return fmt.Sprintf("%d min %d s", seconds/60, seconds%60)
}
