package metrics

import (
	"encoding/csv"
	"fmt"
	"os"
	"path/filepath"
	"strconv"
	"time"
)

// Writer stores experiment records as CSV files in a timestamped directory.
type Writer struct {
	baseDir string
}

func NewWriter(outDir, name string) (*Writer, error) {
	timestamp := time.Now().UTC().Format(time.RFC3339)
	baseDir := filepath.Join(outDir, name, timestamp)
	if err := os.MkdirAll(baseDir, 0755); err != nil {
		return nil, fmt.Errorf("failed to create directory: %w", err)
	}
	return &Writer{baseDir: baseDir}, nil
}

// Dir returns the directory the writer stores files in.
func (w *Writer) Dir() string { return w.baseDir }

func (w *Writer) WriteStrategyConfigs(configs []StrategyConfig) error {
	f, err := os.Create(filepath.Join(w.baseDir, "strategy_configs.csv"))
	if err != nil {
		return fmt.Errorf("failed to create strategy configs file: %w", err)
	}
	defer f.Close()

	writer := csv.NewWriter(f)
	defer writer.Flush()

	header := []string{"id", "kind", "min_bank", "roll_with"}
	if err := writer.Write(header); err != nil {
		return fmt.Errorf("failed to write strategy configs header: %w", err)
	}

	for _, config := range configs {
		row := []string{
			strconv.Itoa(config.ID),
			config.Kind,
			strconv.Itoa(config.MinBank),
			strconv.Itoa(config.RollWith),
		}
		if err := writer.Write(row); err != nil {
			return fmt.Errorf("failed to write strategy config row: %w", err)
		}
	}
	return nil
}

func (w *Writer) WriteGameRecords(records []GameRecord) error {
	f, err := os.Create(filepath.Join(w.baseDir, "game_records.csv"))
	if err != nil {
		return fmt.Errorf("failed to create game records file: %w", err)
	}
	defer f.Close()

	writer := csv.NewWriter(f)
	defer writer.Flush()

	header := []string{"id", "strategy1", "strategy2", "winner", "turns", "total1", "total2", "duration"}
	if err := writer.Write(header); err != nil {
		return fmt.Errorf("failed to write game records header: %w", err)
	}

	for _, record := range records {
		row := []string{
			strconv.Itoa(record.ID),
			strconv.Itoa(record.Strategy1),
			strconv.Itoa(record.Strategy2),
			strconv.Itoa(record.Winner),
			strconv.Itoa(record.Turns),
			strconv.Itoa(record.Totals[0]),
			strconv.Itoa(record.Totals[1]),
			record.Duration.String(),
		}
		if err := writer.Write(row); err != nil {
			return fmt.Errorf("failed to write game record row: %w", err)
		}
	}
	return nil
}

func (w *Writer) WriteTurnRecords(records []TurnRecord) error {
	f, err := os.Create(filepath.Join(w.baseDir, "turn_records.csv"))
	if err != nil {
		return fmt.Errorf("failed to create turn records file: %w", err)
	}
	defer f.Close()

	writer := csv.NewWriter(f)
	defer writer.Flush()

	header := []string{"game", "turn", "player", "rolls", "points", "busted", "total"}
	if err := writer.Write(header); err != nil {
		return fmt.Errorf("failed to write turn records header: %w", err)
	}

	for _, record := range records {
		row := []string{
			strconv.Itoa(record.Game),
			strconv.Itoa(record.Turn),
			strconv.Itoa(record.Player),
			strconv.Itoa(record.Rolls),
			strconv.Itoa(record.Points),
			strconv.FormatBool(record.Busted),
			strconv.Itoa(record.Total),
		}
		if err := writer.Write(row); err != nil {
			return fmt.Errorf("failed to write turn record row: %w", err)
		}
	}
	return nil
}
