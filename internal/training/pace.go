package training

import (
	"fmt"
	"strings"
	"time"

	"github.com/myrjola/pacekeeper/internal/errors"
)

// ErrPaceCalculation is returned when a pace-zone calculation is given
// implausible input.
var ErrPaceCalculation = errors.NewSentinel("pace calculation failed")

// ZoneCalculation is the outcome of a VDOT-based zone derivation. The zones
// are ordered slowest to fastest, recovery first.
type ZoneCalculation struct {
	VDOT              float64
	Zones             []PaceZone
	SourceDescription string
}

// zoneDefinition carries the fixed presentation attributes of a zone.
type zoneDefinition struct {
	description string
	colorHex    string
}

var zoneDefinitions = map[ZoneName]zoneDefinition{
	ZoneRecovery:   {"Very easy, conversational pace", "#9CA3AF"},
	ZoneEasy:       {"Comfortable, could hold a conversation", "#22C55E"},
	ZoneTempo:      {"Comfortably hard, marathon effort", "#EAB308"},
	ZoneThreshold:  {"Hard but sustainable for ~1 hour", "#F97316"},
	ZoneInterval:   {"Hard, 3-5 minute repeats at VO2max", "#EF4444"},
	ZoneRepetition: {"Very hard, short fast bursts", "#A855F7"},
}

// vdotRow holds the training paces for one VDOT value from Jack Daniels'
// tables, in min/km. Values between rows are linearly interpolated.
type vdotRow struct {
	vdot       float64
	easy       float64
	threshold  float64
	interval   float64
	repetition float64
}

// vdotPaceTable is sorted by ascending VDOT; paces decrease as VDOT grows.
var vdotPaceTable = []vdotRow{
	{30, 7.47, 6.38, 5.85, 5.42},
	{35, 6.85, 5.85, 5.35, 4.95},
	{40, 6.30, 5.38, 4.92, 4.55},
	{45, 5.85, 5.00, 4.55, 4.22},
	{50, 5.47, 4.67, 4.23, 3.92},
	{55, 5.13, 4.38, 3.97, 3.67},
	{60, 4.85, 4.13, 3.73, 3.45},
	{65, 4.60, 3.92, 3.53, 3.27},
	{70, 4.38, 3.73, 3.37, 3.12},
	{75, 4.18, 3.57, 3.22, 2.98},
	{80, 4.00, 3.42, 3.08, 2.85},
}

// raceToThresholdOffset adjusts a race pace before the threshold-column
// lookup: race pace runs slightly faster than threshold pace.
const raceToThresholdOffset = -0.15

// ZonesFromRace calculates pace zones from a named race result. The distance
// must be one of the codes in RaceDistanceKm.
func ZonesFromRace(distance string, finishTime time.Duration) (ZoneCalculation, error) {
	km, ok := RaceDistanceKm[strings.ToLower(distance)]
	if !ok {
		return ZoneCalculation{}, errors.Errorf("%w: unknown race distance %q", ErrPaceCalculation, distance)
	}
	label := strings.ToUpper(strings.ReplaceAll(distance, "_", " "))
	return zonesFromRace(label, km, finishTime)
}

// ZonesFromRaceKm calculates pace zones from a race over an arbitrary
// distance in kilometers.
func ZonesFromRaceKm(distanceKm float64, finishTime time.Duration) (ZoneCalculation, error) {
	return zonesFromRace(fmt.Sprintf("%.2fkm", distanceKm), distanceKm, finishTime)
}

func zonesFromRace(label string, distanceKm float64, finishTime time.Duration) (ZoneCalculation, error) {
	if distanceKm <= 0 {
		return ZoneCalculation{}, errors.Errorf("%w: distance must be positive", ErrPaceCalculation)
	}
	if finishTime <= 0 {
		return ZoneCalculation{}, errors.Errorf("%w: time must be positive", ErrPaceCalculation)
	}

	pace := finishTime.Minutes() / distanceKm
	if pace < 2.0 {
		return ZoneCalculation{}, errors.Errorf(
			"%w: pace is faster than world record territory, please check your input", ErrPaceCalculation)
	}
	if pace > 15.0 {
		return ZoneCalculation{}, errors.Errorf("%w: pace is very slow, please check your input", ErrPaceCalculation)
	}

	vdot := vdotFromThresholdColumn(pace + raceToThresholdOffset)
	return ZoneCalculation{
		VDOT:              round1(vdot),
		Zones:             zonesForVDOT(vdot),
		SourceDescription: fmt.Sprintf("%s in %s", label, formatDuration(finishTime)),
	}, nil
}

// ZonesFromThresholdPace calculates pace zones from a lactate threshold pace
// in min/km, e.g. 5.00 for 5:00/km.
func ZonesFromThresholdPace(thresholdPace float64) (ZoneCalculation, error) {
	if thresholdPace < 2.5 {
		return ZoneCalculation{}, errors.Errorf(
			"%w: threshold pace is faster than elite level, please check your input", ErrPaceCalculation)
	}
	if thresholdPace > 10.0 {
		return ZoneCalculation{}, errors.Errorf(
			"%w: threshold pace seems very slow, please check your input", ErrPaceCalculation)
	}

	vdot := vdotFromThresholdColumn(thresholdPace)
	return ZoneCalculation{
		VDOT:              round1(vdot),
		Zones:             zonesForVDOT(vdot),
		SourceDescription: fmt.Sprintf("Threshold pace %s/km", FormatPace(thresholdPace)),
	}, nil
}

// vdotFromThresholdColumn finds the VDOT whose threshold pace matches the
// given pace, interpolating between rows and clamping outside the table.
func vdotFromThresholdColumn(pace float64) float64 {
	for i := 0; i < len(vdotPaceTable)-1; i++ {
		lower, upper := vdotPaceTable[i], vdotPaceTable[i+1]
		if lower.threshold >= pace && pace >= upper.threshold {
			fraction := (lower.threshold - pace) / (lower.threshold - upper.threshold)
			return lower.vdot + fraction*(upper.vdot-lower.vdot)
		}
	}
	if pace > vdotPaceTable[0].threshold {
		return vdotPaceTable[0].vdot
	}
	return vdotPaceTable[len(vdotPaceTable)-1].vdot
}

// interpolatePaces resolves the four training paces for a VDOT value,
// clamping to the table ends.
func interpolatePaces(vdot float64) vdotRow {
	first, last := vdotPaceTable[0], vdotPaceTable[len(vdotPaceTable)-1]
	if vdot <= first.vdot {
		return first
	}
	if vdot >= last.vdot {
		return last
	}
	for i := 0; i < len(vdotPaceTable)-1; i++ {
		lower, upper := vdotPaceTable[i], vdotPaceTable[i+1]
		if lower.vdot <= vdot && vdot <= upper.vdot {
			fraction := (vdot - lower.vdot) / (upper.vdot - lower.vdot)
			return vdotRow{
				vdot:       vdot,
				easy:       lower.easy + fraction*(upper.easy-lower.easy),
				threshold:  lower.threshold + fraction*(upper.threshold-lower.threshold),
				interval:   lower.interval + fraction*(upper.interval-lower.interval),
				repetition: lower.repetition + fraction*(upper.repetition-lower.repetition),
			}
		}
	}
	return first
}

// zonesForVDOT builds the six zones. Adjacent zones share boundaries exactly,
// so every pace between recovery and repetition falls into exactly one zone.
func zonesForVDOT(vdot float64) []PaceZone {
	paces := interpolatePaces(vdot)
	tempoMid := (paces.easy + paces.threshold) / 2

	zone := func(name ZoneName, minPace, maxPace float64) PaceZone {
		def := zoneDefinitions[name]
		return PaceZone{
			Name:         name,
			MinPaceMinKm: round2(minPace),
			MaxPaceMinKm: round2(maxPace),
			Description:  def.description,
			ColorHex:     def.colorHex,
		}
	}

	return []PaceZone{
		zone(ZoneRecovery, paces.easy*1.15, paces.easy*1.05),
		zone(ZoneEasy, paces.easy*1.05, paces.easy*0.95),
		zone(ZoneTempo, paces.easy*0.95, tempoMid),
		zone(ZoneThreshold, tempoMid, paces.threshold),
		zone(ZoneInterval, paces.threshold, paces.interval),
		zone(ZoneRepetition, paces.interval, paces.repetition),
	}
}

// ZoneForPace determines which zone a pace falls into. The zones must be
// ordered slowest to fastest. Paces slower than the slowest zone map to
// recovery and paces faster than the fastest zone map to repetition, so the
// second return value is false only when zones is empty.
func ZoneForPace(pace float64, zones []PaceZone) (ZoneName, bool) {
	for _, z := range zones {
		// Slower pace is a higher number, so max is the fast boundary.
		if z.MaxPaceMinKm <= pace && pace <= z.MinPaceMinKm {
			return z.Name, true
		}
	}
	if len(zones) > 0 && pace > zones[0].MinPaceMinKm {
		return ZoneRecovery, true
	}
	if len(zones) > 0 && pace < zones[len(zones)-1].MaxPaceMinKm {
		return ZoneRepetition, true
	}
	return "", false
}

// FormatPace renders a decimal min/km pace as M:SS.
func FormatPace(pace float64) string {
	totalSeconds := int(pace * 60)
	return fmt.Sprintf("%d:%02d", totalSeconds/60, totalSeconds%60)
}

// formatDuration renders a duration as H:MM:SS, or M:SS under an hour.
func formatDuration(d time.Duration) string {
	totalSeconds := int(d.Seconds())
	hours := totalSeconds / 3600
	minutes := (totalSeconds % 3600) / 60
	seconds := totalSeconds % 60
	if hours > 0 {
		return fmt.Sprintf("%d:%02d:%02d", hours, minutes, seconds)
	}
	return fmt.Sprintf("%d:%02d", minutes, seconds)
}
