package protocol

import (
	"encoding/json"
	"fmt"
	"math"
)

// jsonFloat renders non-finite values as the strings "NaN", "+Inf" and
// "-Inf". Any eight bytes are a valid delta_time on the wire.
type jsonFloat float64

func (f jsonFloat) MarshalJSON() ([]byte, error) {
	v := float64(f)
	switch {
	case math.IsNaN(v):
		return []byte(`"NaN"`), nil
	case math.IsInf(v, 1):
		return []byte(`"+Inf"`), nil
	case math.IsInf(v, -1):
		return []byte(`"-Inf"`), nil
	}
	return json.Marshal(v)
}

func (f *jsonFloat) UnmarshalJSON(data []byte) error {
	var s string
	if err := json.Unmarshal(data, &s); err == nil {
		switch s {
		case "NaN":
			*f = jsonFloat(math.NaN())
		case "+Inf", "Inf":
			*f = jsonFloat(math.Inf(1))
		case "-Inf":
			*f = jsonFloat(math.Inf(-1))
		default:
			return fmt.Errorf("protocol: invalid float %q", s)
		}
		return nil
	}
	var v float64
	if err := json.Unmarshal(data, &v); err != nil {
		return err
	}
	*f = jsonFloat(v)
	return nil
}

func (m Decode) MarshalJSON() ([]byte, error) {
	type plain Decode
	return json.Marshal(struct {
		plain
		DeltaTime jsonFloat `json:"delta_time"`
	}{plain(m), jsonFloat(m.DeltaTime)})
}

func (m *Decode) UnmarshalJSON(data []byte) error {
	type plain Decode
	aux := struct {
		*plain
		DeltaTime jsonFloat `json:"delta_time"`
	}{plain: (*plain)(m)}
	if err := json.Unmarshal(data, &aux); err != nil {
		return err
	}
	m.DeltaTime = float64(aux.DeltaTime)
	return nil
}

func (m WsprDecode) MarshalJSON() ([]byte, error) {
	type plain WsprDecode
	return json.Marshal(struct {
		plain
		DeltaTime jsonFloat `json:"delta_time"`
	}{plain(m), jsonFloat(m.DeltaTime)})
}

func (m *WsprDecode) UnmarshalJSON(data []byte) error {
	type plain WsprDecode
	aux := struct {
		*plain
		DeltaTime jsonFloat `json:"delta_time"`
	}{plain: (*plain)(m)}
	if err := json.Unmarshal(data, &aux); err != nil {
		return err
	}
	m.DeltaTime = float64(aux.DeltaTime)
	return nil
}
