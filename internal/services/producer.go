package services

import (
	"bytes"
	"encoding/json"
	"fmt"
	"strings"

	"github.com/lgrando1/leo-tracker/internal/models"
	"github.com/lgrando1/leo-tracker/internal/normalize"
)

// Producer records use the field names of the import format:
// alimento, kcal, p, c, g, gluten, quantidade_g / quantidade.
var producerNumericFields = []struct {
	key   string
	field func(*models.Macros) *float64
}{
	{"kcal", func(macros *models.Macros) *float64 { return &macros.Kcal }},
	{"p", func(macros *models.Macros) *float64 { return &macros.ProteinG }},
	{"c", func(macros *models.Macros) *float64 { return &macros.CarbG }},
	{"g", func(macros *models.Macros) *float64 { return &macros.FatG }},
}

// DecodeProducerRecords turns producer output into consumption inputs.
// The payload may be wrapped in a Markdown code fence and may hold a single
// object instead of a list. Macros are taken as the intended serving; they
// are never looked up or rescaled.
func DecodeProducerRecords(payload []byte) ([]ConsumptionInput, error) {
	body := stripCodeFence(payload)
	if len(body) == 0 {
		return nil, invalid("payload", "empty")
	}

	decoder := json.NewDecoder(bytes.NewReader(body))
	decoder.UseNumber()

	var document interface{}
	if err := decoder.Decode(&document); err != nil {
		return nil, invalid("payload", fmt.Sprintf("not valid JSON: %v", err))
	}

	var objects []interface{}
	switch value := document.(type) {
	case []interface{}:
		objects = value
	case map[string]interface{}:
		objects = []interface{}{value}
	default:
		return nil, invalid("payload", "expected an object or a list of objects")
	}
	if len(objects) == 0 {
		return nil, invalid("payload", "no records")
	}

	inputs := make([]ConsumptionInput, 0, len(objects))
	for i, object := range objects {
		record, ok := object.(map[string]interface{})
		if !ok {
			return nil, invalid(fmt.Sprintf("records[%d]", i), "expected an object")
		}
		input, err := decodeProducerRecord(i, record)
		if err != nil {
			return nil, err
		}
		inputs = append(inputs, input)
	}
	return inputs, nil
}

func decodeProducerRecord(index int, record map[string]interface{}) (ConsumptionInput, error) {
	prefix := fmt.Sprintf("records[%d].", index)

	name, _ := record["alimento"].(string)
	name = strings.TrimSpace(name)
	if name == "" {
		return ConsumptionInput{}, invalid(prefix+"alimento", "required")
	}

	input := ConsumptionInput{FoodName: name, QuantityG: 1}
	for _, numeric := range producerNumericFields {
		value, present := record[numeric.key]
		if !present || value == nil {
			return ConsumptionInput{}, invalid(prefix+numeric.key, "required")
		}
		*numeric.field(&input.Macros) = normalize.Number(value)
	}

	if gluten, ok := record["gluten"].(string); ok {
		input.Gluten = ParseGluten(gluten)
	}

	for _, key := range []string{"quantidade_g", "quantidade"} {
		if value, present := record[key]; present && value != nil {
			input.QuantityG = normalize.Number(value)
			break
		}
	}
	return input, nil
}

// ParseGluten maps the free-text gluten answer onto a flag. Anything not
// recognised is unspecified.
func ParseGluten(value string) models.GlutenFlag {
	folded := normalize.Fold(value)
	switch {
	case folded == "":
		return models.GlutenUnspecified
	case strings.HasPrefix(folded, "nao"), strings.HasPrefix(folded, "sem"),
		folded == string(models.GlutenDoesNotContain), folded == "no", folded == "false":
		return models.GlutenDoesNotContain
	case strings.HasPrefix(folded, "contem"), folded == "sim",
		folded == string(models.GlutenContains), folded == "yes", folded == "true":
		return models.GlutenContains
	}
	return models.GlutenUnspecified
}

func stripCodeFence(payload []byte) []byte {
	body := bytes.TrimSpace(payload)
	if !bytes.HasPrefix(body, []byte("```")) {
		return body
	}
	if newline := bytes.IndexByte(body, '\n'); newline >= 0 {
		body = body[newline+1:]
	} else {
		body = bytes.TrimPrefix(body, []byte("```"))
	}
	body = bytes.TrimSpace(body)
	body = bytes.TrimSuffix(body, []byte("```"))
	return bytes.TrimSpace(body)
}
