package hhapi

import "strings"

// areaIDs maps lowercase city names to hh.ru area identifiers. Covers the
// major Russian cities plus the synthetic "remote" area.
var areaIDs = map[string]string{
	"москва":           "1",
	"moscow":           "1",
	"санкт-петербург":  "2",
	"спб":              "2",
	"екатеринбург":     "3",
	"новосибирск":      "4",
	"астрахань":        "16",
	"барнаул":          "17",
	"брянск":           "20",
	"калининград":      "22",
	"волгоград":        "24",
	"воронеж":          "26",
	"владивосток":      "33",
	"хабаровск":        "39",
	"иркутск":          "42",
	"ижевск":           "45",
	"красноярск":       "46",
	"кемерово":         "47",
	"киров":            "49",
	"самара":           "50",
	"краснодар":        "53",
	"курск":            "54",
	"липецк":           "55",
	"махачкала":        "59",
	"набережные челны": "61",
	"новокузнецк":      "64",
	"нижний новгород":  "66",
	"омск":             "68",
	"оренбург":         "70",
	"пенза":            "71",
	"пермь":            "72",
	"челябинск":        "73",
	"ростов-на-дону":   "76",
	"рязань":           "78",
	"саратов":          "79",
	"тольятти":         "86",
	"казань":           "88",
	"томск":            "90",
	"тула":             "91",
	"ульяновск":        "95",
	"тюмень":           "98",
	"уфа":              "99",
	"чебоксары":        "100",
	"ярославль":        "104",
	"удалённо":         "113",
	"удаленная работа": "113",
	"remote":           "113",
}

// AreaID resolves a city name to an hh.ru area ID. Numeric input passes
// through unchanged; unknown cities default to Moscow.
func AreaID(city string) string {
	city = strings.TrimSpace(city)
	if city == "" {
		return ""
	}
	if isDigits(city) {
		return city
	}
	if id, ok := areaIDs[strings.ToLower(city)]; ok {
		return id
	}
	return "1"
}

func isDigits(s string) bool {
	for _, r := range s {
		if r < '0' || r > '9' {
			return false
		}
	}
	return len(s) > 0
}
