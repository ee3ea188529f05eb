package export

import (
	"bytes"
	_ "embed"
	"encoding/json"
	"fmt"
	"os"
	"path/filepath"
	"strings"

	"github.com/xeipuuv/gojsonschema"

	"github.com/stitts-dev/ffdata/internal/models"
	"github.com/stitts-dev/ffdata/pkg/utils"
)

//go:embed player.schema.json
var playerSchema []byte

// Output encodings.
const (
	FormatArray  = "array"
	FormatSchema = "schema"
)

// Field describes one column of the schema-tagged document.
type Field struct {
	Name string `json:"name"`
	Type string `json:"type"`
}

type Schema struct {
	Fields []Field `json:"fields"`
}

// Document is the schema-tagged artifact shape.
type Document struct {
	Schema Schema                  `json:"schema"`
	Data   []models.EnhancedPlayer `json:"data"`
}

// FileName is the artifact name for a season.
func FileName(season int) string {
	return fmt.Sprintf("Projections-%d.json", season)
}

// Fields lists every exported column in output order.
func Fields() []Field {
	fields := []Field{
		{Name: "key", Type: "string"},
		{Name: "name", Type: "string"},
		{Name: "pos", Type: "string"},
		{Name: "team", Type: "string"},
		{Name: "bye", Type: "integer"},
		{Name: "adp_std", Type: "number"},
		{Name: "adp_half_ppr", Type: "number"},
		{Name: "adp_ppr", Type: "number"},
	}
	for _, f := range models.StatFields {
		fields = append(fields, Field{Name: f.Name, Type: "number"})
	}
	for _, f := range models.AdvancedFields {
		fields = append(fields, Field{Name: f.Name, Type: "number"})
	}
	return append(fields,
		Field{Name: "injury_score", Type: "integer"},
		Field{Name: "consistency_score", Type: "number"},
		Field{Name: "floor", Type: "number"},
		Field{Name: "ceiling", Type: "number"},
		Field{Name: "weekly_variance", Type: "number"},
		Field{Name: "sos_overall", Type: "number"},
		Field{Name: "sos_playoffs", Type: "number"},
		Field{Name: "schedule_adjustment", Type: "number"},
	)
}

// Write encodes players in the given format to dir and returns the path.
func Write(dir string, season int, format string, players []models.EnhancedPlayer) (string, error) {
	path := filepath.Join(dir, FileName(season))
	var err error
	switch format {
	case FormatSchema:
		err = WriteDocument(path, players)
	case FormatArray, "":
		err = WriteArray(path, players)
	default:
		err = fmt.Errorf("unknown format %q", format)
	}
	if err != nil {
		return "", err
	}
	return path, nil
}

// WriteArray writes players as a bare indented JSON array.
func WriteArray(path string, players []models.EnhancedPlayer) error {
	if players == nil {
		players = []models.EnhancedPlayer{}
	}
	return writeJSON(path, players)
}

// WriteDocument writes players wrapped in a {schema, data} document.
func WriteDocument(path string, players []models.EnhancedPlayer) error {
	if players == nil {
		players = []models.EnhancedPlayer{}
	}
	return writeJSON(path, Document{Schema: Schema{Fields: Fields()}, Data: players})
}

func writeJSON(path string, payload any) error {
	if err := os.MkdirAll(filepath.Dir(path), 0o755); err != nil {
		return exportError(path, err)
	}

	data, err := json.MarshalIndent(payload, "", "  ")
	if err != nil {
		return exportError(path, err)
	}

	tmp := path + ".tmp"
	if err := os.WriteFile(tmp, data, 0o644); err != nil {
		return exportError(path, err)
	}
	if err := os.Rename(tmp, path); err != nil {
		_ = os.Remove(tmp)
		return exportError(path, err)
	}
	return nil
}

func exportError(path string, err error) error {
	return fmt.Errorf("%w: %s: %v", utils.ErrExportFailed, path, err)
}

// Read loads an artifact in either encoding.
func Read(path string) ([]models.EnhancedPlayer, error) {
	data, err := os.ReadFile(path)
	if err != nil {
		return nil, err
	}
	return Decode(data)
}

// Decode parses a bare array or a {schema, data} document.
func Decode(data []byte) ([]models.EnhancedPlayer, error) {
	raw, err := playerArray(data)
	if err != nil {
		return nil, err
	}
	var players []models.EnhancedPlayer
	if err := json.Unmarshal(raw, &players); err != nil {
		return nil, fmt.Errorf("failed to decode players: %w", err)
	}
	return players, nil
}

func playerArray(data []byte) ([]byte, error) {
	trimmed := bytes.TrimSpace(data)
	if len(trimmed) == 0 {
		return nil, fmt.Errorf("empty artifact")
	}
	switch trimmed[0] {
	case '[':
		return trimmed, nil
	case '{':
		var doc struct {
			Data json.RawMessage `json:"data"`
		}
		if err := json.Unmarshal(trimmed, &doc); err != nil {
			return nil, fmt.Errorf("failed to decode document: %w", err)
		}
		if len(doc.Data) == 0 {
			return nil, fmt.Errorf("document has no data")
		}
		return doc.Data, nil
	default:
		return nil, fmt.Errorf("artifact is neither an array nor a document")
	}
}

// ValidateDocument checks every player record of an artifact, in either
// encoding, against the player schema.
func ValidateDocument(data []byte) error {
	raw, err := playerArray(data)
	if err != nil {
		return err
	}

	result, err := gojsonschema.Validate(
		gojsonschema.NewBytesLoader(playerSchema),
		gojsonschema.NewBytesLoader(raw),
	)
	if err != nil {
		return fmt.Errorf("validation error: %w", err)
	}

	if !result.Valid() {
		errs := make([]string, len(result.Errors()))
		for i, desc := range result.Errors() {
			errs[i] = desc.String()
		}
		return utils.NewAppError(utils.ErrCodeValidation, "artifact does not match player schema", strings.Join(errs, "; "))
	}
	return nil
}
