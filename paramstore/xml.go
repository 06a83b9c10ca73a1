package paramstore

import (
	"encoding/xml"
	"os"
	"strconv"

	"go.viam.com/costmap/costmaperrors"
)

// paramFile is the wire shape of costmap.xml / inflation_layer.xml: a flat
// list of name/value pairs.
//
//	<parameters>
//	  <param name="inflation_radius" value="0.55"/>
//	  <param name="cost_scaling_factor" value="10.0"/>
//	</parameters>
type paramFile struct {
	XMLName xml.Name `xml:"parameters"`
	Params  []struct {
		Name  string `xml:"name,attr"`
		Value string `xml:"value,attr"`
	} `xml:"param"`
}

// LoadFile parses an XML parameter file into an AttributeMap, inferring the
// narrowest type each value string can hold (bool, then int, then float64,
// falling back to string) so typed getters downstream don't have to parse
// again. A missing file is not an error: callers get an empty map and rely
// on the documented defaults, since costmap.xml/inflation_layer.xml are
// both optional.
func LoadFile(path string) (AttributeMap, error) {
	am := AttributeMap{}

	data, err := os.ReadFile(path)
	if err != nil {
		if os.IsNotExist(err) {
			return am, nil
		}
		return nil, costmaperrors.NewConfigError(path, err.Error())
	}

	var parsed paramFile
	if err := xml.Unmarshal(data, &parsed); err != nil {
		return nil, costmaperrors.NewConfigError(path, costmaperrors.Wrap(err, "malformed xml").Error())
	}

	for _, p := range parsed.Params {
		am[p.Name] = inferValue(p.Value)
	}

	if bad := am.CheckFinite(); bad != "" {
		return nil, costmaperrors.NewConfigError(bad, "non-finite parameter value")
	}

	return am, nil
}

func inferValue(s string) interface{} {
	if s == "true" || s == "false" {
		b, _ := strconv.ParseBool(s)
		return b
	}
	if i, err := strconv.Atoi(s); err == nil {
		return i
	}
	if f, err := strconv.ParseFloat(s, 64); err == nil {
		return f
	}
	return s
}
