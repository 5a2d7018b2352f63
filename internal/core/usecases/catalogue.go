package usecases

import (
	"fmt"
	"sort"
	"strings"

	"github.com/nyayasahayak/legallibrary/internal/core/domain"
)

var stateCodes = map[string]string{
	"Andhra Pradesh": "AP", "Arunachal Pradesh": "AR", "Assam": "AS",
	"Bihar": "BR", "Chhattisgarh": "CG", "Goa": "GA", "Gujarat": "GJ",
	"Haryana": "HR", "Himachal Pradesh": "HP", "Jharkhand": "JH",
	"Karnataka": "KA", "Kerala": "KL", "Madhya Pradesh": "MP",
	"Maharashtra": "MH", "Manipur": "MN", "Meghalaya": "ML",
	"Mizoram": "MZ", "Nagaland": "NL", "Odisha": "OR", "Punjab": "PB",
	"Rajasthan": "RJ", "Sikkim": "SK", "Tamil Nadu": "TN",
	"Telangana": "TG", "Tripura": "TR", "Uttar Pradesh": "UP",
	"Uttarakhand": "UK", "West Bengal": "WB",

	"Andaman and Nicobar Islands": "AN", "Chandigarh (UT)": "CH",
	"Dadra and Nagar Haveli (UT)": "DN", "Delhi (NCT)": "DL",
	"Jammu and Kashmir": "JK", "Ladakh": "LA", "Lakshadweep (UT)": "LD",
	"Puducherry (UT)": "PY", "Daman and Diu (UT)": "DD",
}

var unionTerritories = map[string]bool{
	"Andaman and Nicobar Islands": true, "Chandigarh": true,
	"Dadra and Nagar Haveli": true, "Delhi": true,
	"Jammu and Kashmir": true, "Ladakh": true, "Lakshadweep": true, "Puducherry": true,
}

var stationTypes = []string{
	"Main Police Station",
	"City Police Station",
	"Rural Police Station",
	"Traffic Police Station",
	"Women Police Station",
	"Cyber Crime Police Station",
	"Economic Offences Police Station",
	"Railway Police Station",
}

// StateCode returns the two-letter code of a state. Unlisted names use the
// initials of their first two words.
func StateCode(name string) string {
	name = strings.TrimSpace(name)
	if code, ok := stateCodes[name]; ok {
		return code
	}
	var b strings.Builder
	for _, w := range strings.Fields(name) {
		b.WriteByte(w[0])
	}
	code := strings.ToUpper(b.String())
	if len(code) > 2 {
		code = code[:2]
	}
	return code
}

// IsUnionTerritory reports whether a catalogue name denotes a union territory.
// A trailing qualifier such as "(NCT)" is ignored.
func IsUnionTerritory(name string) bool {
	if strings.Contains(name, "(UT)") {
		return true
	}
	base, _, _ := strings.Cut(strings.TrimSpace(name), " (")
	return unionTerritories[base]
}

// DistrictCode builds <state>_<first four letters of the name, stripped>.
func DistrictCode(stateCode, name string) string {
	s := strings.NewReplacer(" ", "", "-", "", "(", "", ")", "").Replace(strings.TrimSpace(name))
	s = strings.ToUpper(s)
	if len(s) > 4 {
		s = s[:4]
	}
	return stateCode + "_" + s
}

// BuildCatalogue turns the state → districts listing into rows. States are
// emitted in name order so codes are stable between runs. A district code
// that collides with an earlier one gets a numeric suffix.
func BuildCatalogue(listing map[string][]string) ([]domain.State, []domain.District) {
	names := make([]string, 0, len(listing))
	for n := range listing {
		names = append(names, n)
	}
	sort.Strings(names)

	var states []domain.State
	var districts []domain.District
	seen := map[string]int{}
	for _, raw := range names {
		name := strings.TrimSpace(raw)
		if name == "" {
			continue
		}
		code := StateCode(name)
		typ := "state"
		if IsUnionTerritory(name) {
			typ = "union_territory"
		}
		states = append(states, domain.State{Code: code, Name: name, Type: typ})

		for _, d := range listing[raw] {
			d = strings.TrimSpace(d)
			if d == "" {
				continue
			}
			dc := DistrictCode(code, d)
			if n := seen[dc]; n > 0 {
				seen[dc]++
				dc = fmt.Sprintf("%s%d", dc, n+1)
			} else {
				seen[dc] = 1
			}
			districts = append(districts, domain.District{
				Code:      dc,
				Name:      d,
				StateCode: code,
				StateName: name,
			})
		}
	}
	return states, districts
}

// GenerateStations produces the placeholder stations of a district: between
// three and six, depending on the number of words in its name. The first
// is always the district's main station.
func GenerateStations(d domain.District) []domain.PoliceStation {
	n := min(6, max(3, len(strings.Fields(d.Name))+2))
	out := make([]domain.PoliceStation, 0, n)
	for i := 0; i < n; i++ {
		name := d.Name + " " + stationTypes[i%len(stationTypes)]
		out = append(out, domain.PoliceStation{
			Code:         fmt.Sprintf("%s_%03d", d.Code, i+1),
			Name:         name,
			DistrictCode: d.Code,
			DistrictName: d.Name,
			StateCode:    d.StateCode,
			Type:         "regular",
			Source:       "catalogue",
		})
	}
	return out
}
