package commands

import (
	"encoding/csv"
	"encoding/json"
	"fmt"
	"io"
	"os"
	"strconv"

	"github.com/mash-protocol/mesh-go/pkg/log"
)

// RunExport exports the log file to the specified format.
func RunExport(path, format, output string) error {
	reader, err := log.NewReader(path)
	if err != nil {
		return fmt.Errorf("failed to open log file: %w", err)
	}
	defer reader.Close()

	// Determine output writer
	var w io.Writer = os.Stdout
	if output != "" {
		f, err := os.Create(output)
		if err != nil {
			return fmt.Errorf("failed to create output file: %w", err)
		}
		defer f.Close()
		w = f
	}

	switch format {
	case "jsonl":
		return exportJSONL(reader, w)
	case "csv":
		return exportCSV(reader, w)
	default:
		return fmt.Errorf("unknown format: %s (supported: jsonl, csv)", format)
	}
}

func exportJSONL(reader *log.Reader, w io.Writer) error {
	encoder := json.NewEncoder(w)
	for {
		event, err := reader.Next()
		if err == io.EOF {
			break
		}
		if err != nil {
			return fmt.Errorf("failed to read event: %w", err)
		}
		if err := encoder.Encode(event); err != nil {
			return fmt.Errorf("failed to encode event: %w", err)
		}
	}
	return nil
}

func exportCSV(reader *log.Reader, w io.Writer) error {
	cw := csv.NewWriter(w)
	defer cw.Flush()

	header := []string{"timestamp", "request_id", "network_id", "provisioner_id", "iv_index", "category", "operation", "outcome", "space", "result"}
	if err := cw.Write(header); err != nil {
		return fmt.Errorf("failed to write header: %w", err)
	}

	for {
		event, err := reader.Next()
		if err == io.EOF {
			break
		}
		if err != nil {
			return fmt.Errorf("failed to read event: %w", err)
		}

		space, result := eventResult(event)
		row := []string{
			event.Timestamp.UTC().Format("2006-01-02T15:04:05.000000Z"),
			event.RequestID,
			event.NetworkID,
			event.ProvisionerID,
			strconv.FormatUint(uint64(event.IVIndex), 10),
			event.Category.String(),
			event.Operation.String(),
			event.Outcome.String(),
			space,
			result,
		}
		if err := cw.Write(row); err != nil {
			return fmt.Errorf("failed to write row: %w", err)
		}
	}
	return nil
}

// eventResult returns the searched space and the value an event reports.
func eventResult(event log.Event) (space, result string) {
	switch {
	case event.Allocation != nil:
		space = event.Allocation.Space.String()
		if event.Allocation.Result != nil {
			result = fmt.Sprintf("0x%04X", *event.Allocation.Result)
		}
	case event.Partition != nil:
		space = event.Partition.Space.String()
		if event.Partition.Result != nil {
			result = event.Partition.Result.String()
		}
	case event.Predicate != nil:
		result = strconv.FormatBool(event.Predicate.Result)
	case event.Mutation != nil:
		result = event.Mutation.Error
	}
	return space, result
}
