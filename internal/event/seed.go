package event

import (
	"time"

	"backend-getyourextreme/internal/experience"
)

// DefaultSchedule is the demo schedule, dated relative to now.
func DefaultSchedule(now time.Time) []EventScheduleItem {
	day := func(offset int) string {
		return now.AddDate(0, 0, offset).Format(experience.DateLayout)
	}
	return []EventScheduleItem{
		{
			ID: "sup-sunrise", Category: experience.CategorySUP, Date: day(1), Time: "08:00", DurationHours: 2,
			Capacity: 12, Booked: 7, Price: 55,
			Title:        "Sunrise SUP Session",
			Summary:      "Calm-water morning group paddle with instructor briefing.",
			Details:      "Included: board, paddle, leash, instructor\nWhat Should You Bring? Swimwear, towel, sunscreen",
			ServiceStops: []string{"Konyaaltı Beach Park", "Lara Hotels Zone", "Marina Meeting Point"},
		},
		{
			ID: "sup-cliffs", Category: experience.CategorySUP, Date: day(3), Time: "11:30", DurationHours: 4,
			Capacity: 10, Booked: 4, Price: 70,
			Title:        "Cliffs Route Guided Tour",
			Summary:      "Half-day premium SUP route under Antalya cliffs.",
			Details:      "Included: equipment, guide, snack break\nNot Included: hotel transfer outside the centre",
			ServiceStops: []string{"Old Harbour", "Karaalioglu Park", "Cliffs Launch Point"},
		},
		{
			ID: "bike-city", Category: experience.CategoryBike, Date: day(2), Time: "09:30", DurationHours: 3,
			Capacity: 14, Booked: 9, Price: 40,
			Title:        "Old Town Bike Loop",
			Summary:      "City-focused ride with historical checkpoints and short breaks.",
			Details:      "Included: bike, helmet, guide\nImportant Information: minimum age 12",
			ServiceStops: []string{"Hadrian's Gate", "Clock Tower", "Old Town Loop Start"},
		},
		{
			ID: "bike-forest", Category: experience.CategoryBike, Date: day(5), Time: "15:00", DurationHours: 3.5,
			Capacity: 12, Booked: 5, Price: 48,
			Title:        "Forest Trail Group Ride",
			Summary:      "Moderate MTB ride through forest route with support team.",
			Details:      "Included: MTB, helmet, support vehicle\nWhat Should You Bring? Closed shoes, water",
			ServiceStops: []string{"Lara Hotels Zone", "Düden Park", "Forest Trailhead"},
		},
		{
			ID: "ski-beginner", Category: experience.CategorySki, Date: day(4), Time: "10:00", DurationHours: 5,
			Capacity: 16, Booked: 6, Price: 85,
			Title:        "Beginner Ski Program",
			Summary:      "Starter ski class with equipment setup and slope safety.",
			Details:      "Included: transfer, skis, boots, instructor\nNot Included: lift pass",
			ServiceStops: []string{"City Centre Bus Stop", "Saklikent Base Lodge"},
		},
		{
			ID: "ski-advanced", Category: experience.CategorySki, Date: day(7), Time: "13:30", DurationHours: 4,
			Capacity: 10, Booked: 3, Price: 110,
			Title:        "Advanced Slope Session",
			Summary:      "Technical run session for experienced participants.",
			Details:      "Included: transfer, coach\nImportant Information: intermediate level required",
			ServiceStops: []string{"City Centre Bus Stop", "Saklikent Base Lodge", "Summit Chairlift"},
		},
	}
}
