package rocketsim

import (
	"encoding/csv"
	"fmt"
	"io"
	"os"
	"path/filepath"
	"strconv"
	"time"

	"github.com/soniakeys/meeus/v3/julian"
)

// ExportConfig configures the exporting of a flight.
type ExportConfig struct {
	Filename  string
	AsCSV     bool
	Timestamp bool
}

// IsUseless returns whether this config doesn't actually do anything.
func (c ExportConfig) IsUseless() bool {
	return !c.AsCSV
}

// csvColumns must be kept in sync with recordRow.
var csvColumns = []string{"time", "altitude", "velocity", "mass", "gravity", "thrust", "drag", "density", "temperature", "pressure", "cd", "mach"}

func recordRow(r Record) []string {
	vals := []float64{r.Time, r.Altitude, r.Velocity, r.Mass, r.Gravity, r.Thrust, r.Drag, r.Density, r.Temperature, r.Pressure, r.DragCoefficient, r.Mach}
	row := make([]string, len(vals))
	for i, val := range vals {
		row[i] = strconv.FormatFloat(val, 'g', -1, 64)
	}
	return row
}

// WriteCSV writes the provided time series as CSV to w, preceded by a commented header.
func WriteCSV(w io.Writer, ts TimeSeries, launch time.Time) error {
	launch = launch.UTC()
	header := fmt.Sprintf("# Creation date (UTC): %s\n# Launch (UTC): %s\n# Launch (JD): %f\n# Records: %d\n# Termination: %s\n",
		time.Now().UTC(), launch.Format(time.RFC3339), julian.TimeToJD(launch), ts.Len(), ts.Reason)
	if _, err := io.WriteString(w, header); err != nil {
		return err
	}
	cw := csv.NewWriter(w)
	if err := cw.Write(csvColumns); err != nil {
		return err
	}
	for _, r := range ts.Records {
		if err := cw.Write(recordRow(r)); err != nil {
			return err
		}
	}
	cw.Flush()
	return cw.Error()
}

// Export writes the time series in outputDir as requested by the config and returns the file path.
// Nothing is written if the config is useless.
func Export(conf ExportConfig, outputDir string, ts TimeSeries, launch time.Time) (string, error) {
	if conf.IsUseless() {
		return "", nil
	}
	name := conf.Filename
	if name == "" {
		name = "unnamed"
	}
	if conf.Timestamp {
		t := time.Now()
		name = fmt.Sprintf("%s-%d-%02d-%02dT%02d.%02d.%02d", name, t.Year(), t.Month(), t.Day(), t.Hour(), t.Minute(), t.Second())
	}
	if outputDir != "" {
		if err := os.MkdirAll(outputDir, 0o755); err != nil {
			return "", err
		}
	}
	path := filepath.Join(outputDir, fmt.Sprintf("flight-%s.csv", name))
	f, err := os.Create(path)
	if err != nil {
		return "", fmt.Errorf("export: %w", err)
	}
	if err := WriteCSV(f, ts, launch); err != nil {
		f.Close()
		return "", fmt.Errorf("export %s: %w", path, err)
	}
	return path, f.Close()
}
