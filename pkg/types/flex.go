package types

import (
	"encoding/json"
	"strings"
)

// FlexRef normalizes a travel api field that arrives either as a plain
// string or as an embedded object carrying an id and a display name.
type FlexRef struct {
	ID   string
	Name string
}

func (f *FlexRef) UnmarshalJSON(data []byte) error {
	trimmed := strings.TrimSpace(string(data))
	if trimmed == "null" || trimmed == "" {
		*f = FlexRef{}
		return nil
	}
	if strings.HasPrefix(trimmed, `"`) {
		var name string
		if err := json.Unmarshal(data, &name); err != nil {
			return err
		}
		*f = FlexRef{Name: name}
		return nil
	}

	var obj struct {
		ID    string `json:"id"`
		AltID string `json:"_id"`
		Name  string `json:"name"`
		Title string `json:"title"`
	}
	if err := json.Unmarshal(data, &obj); err != nil {
		return err
	}
	*f = FlexRef{
		ID:   FirstNonEmpty(obj.ID, obj.AltID),
		Name: FirstNonEmpty(obj.Name, obj.Title),
	}
	return nil
}

func (f FlexRef) MarshalJSON() ([]byte, error) {
	if f.ID == "" {
		return json.Marshal(f.Name)
	}
	return json.Marshal(struct {
		ID   string `json:"id"`
		Name string `json:"name,omitempty"`
	}{ID: f.ID, Name: f.Name})
}

// String returns the display name, falling back to the id.
func (f FlexRef) String() string {
	if f.Name != "" {
		return f.Name
	}
	return f.ID
}

// FirstNonEmpty returns the first value that is not blank.
func FirstNonEmpty(values ...string) string {
	for _, v := range values {
		if strings.TrimSpace(v) != "" {
			return v
		}
	}
	return ""
}
