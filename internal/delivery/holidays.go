package delivery

import "time"

// GhanaHolidays is the built-in recurring public-holiday calendar, used when
// the holidays table is empty. Movable feasts (Easter, Eid) are expected as
// year-pinned rows in the database.
func GhanaHolidays() []Holiday {
	return []Holiday{
		{Name: "New Year's Day", Month: time.January, Day: 1},
		{Name: "Constitution Day", Month: time.January, Day: 7},
		{Name: "Independence Day", Month: time.March, Day: 6},
		{Name: "May Day", Month: time.May, Day: 1},
		{Name: "Founders' Day", Month: time.August, Day: 4},
		{Name: "Kwame Nkrumah Memorial Day", Month: time.September, Day: 21},
		{Name: "Farmers' Day", Month: time.December, Day: 5},
		{Name: "Christmas Day", Month: time.December, Day: 25},
		{Name: "Boxing Day", Month: time.December, Day: 26},
	}
}
