package services

import (
	"fmt"
	"sort"
	"time"

	"camera-logistics-system/models"
	"camera-logistics-system/utils"

	"github.com/gofiber/fiber/v2"
	"gorm.io/gorm"
)

// StatsService pre-aggregates entity data into the {name, value} arrays the
// chart widgets consume, and into per-state markers for the map.
type StatsService struct {
	DB *gorm.DB
}

func NewStatsService(db *gorm.DB) *StatsService {
	return &StatsService{DB: db}
}

// NameValue is one chart datum.
type NameValue struct {
	Name  string `json:"name"`
	Value int    `json:"value"`
}

var spanishMonths = [...]string{
	"ene", "feb", "mar", "abr", "may", "jun",
	"jul", "ago", "sep", "oct", "nov", "dic",
}

// GetOverview returns the dashboard headline counters.
func (s *StatsService) GetOverview(c *fiber.Ctx) error {
	count := func(model any, query string, args ...any) int64 {
		var n int64
		db := s.DB.Model(model)
		if query != "" {
			db = db.Where(query, args...)
		}
		db.Count(&n)
		return n
	}

	shipmentsByStatus := fiber.Map{}
	for _, st := range []string{
		models.ShipmentPreparando, models.ShipmentPendiente,
		models.ShipmentEnviado, models.ShipmentEntregado, models.ShipmentCancelado,
	} {
		shipmentsByStatus[st] = count(&models.Shipment{}, "status = ?", st)
	}

	return c.JSON(fiber.Map{
		"activeTournaments":  count(&models.Tournament{}, "status = ?", models.TournamentActivo),
		"totalTournaments":   count(&models.Tournament{}, ""),
		"camerasInUse":       count(&models.Camera{}, "status = ?", models.CameraEnUso),
		"camerasInTransit":   count(&models.Camera{}, "status = ?", models.CameraEnEnvio),
		"camerasMaintenance": count(&models.Camera{}, "status = ?", models.CameraMantenimiento),
		"totalCameras":       count(&models.Camera{}, ""),
		"activeWorkers":      count(&models.Worker{}, "status = ?", models.WorkerActivo),
		"totalWorkers":       count(&models.Worker{}, ""),
		"shipmentsByStatus":  shipmentsByStatus,
	})
}

// GetTournamentCharts aggregates tournaments into the chart series: duration
// mix, holes distribution, top states, monthly activity and the combined
// days+holes configurations.
func (s *StatsService) GetTournamentCharts(c *fiber.Ctx) error {
	var tournaments []models.Tournament
	if err := s.DB.Find(&tournaments).Error; err != nil {
		return c.Status(500).JSON(fiber.Map{"error": "failed to fetch tournaments"})
	}

	duration := []NameValue{{Name: "1 Día"}, {Name: "Más de 1 día"}}
	holes := map[string]int{}
	states := map[string]int{}
	monthly := map[string]int{}
	monthlyKeys := map[string]time.Time{}
	types := map[string]int{}

	for _, t := range tournaments {
		if t.Days == 1 {
			duration[0].Value++
		} else {
			duration[1].Value++
		}

		holeKey := "Sin definir"
		holesLabel := "Sin hoyos"
		if t.Holes > 0 {
			holeKey = fmt.Sprintf("%d Hoyos", t.Holes)
			holesLabel = holeKey
		}
		holes[holeKey]++

		if t.State != "" {
			states[utils.CanonicalState(t.State)]++
		}

		if d, err := time.Parse("2006-01-02", t.Date); err == nil {
			key := fmt.Sprintf("%s %d", spanishMonths[d.Month()-1], d.Year())
			monthly[key]++
			monthlyKeys[key] = time.Date(d.Year(), d.Month(), 1, 0, 0, 0, 0, time.UTC)
		}

		daysLabel := "1 Día"
		if t.Days != 1 {
			daysLabel = fmt.Sprintf("%d Días", t.Days)
		}
		types[daysLabel+", "+holesLabel]++
	}

	nonZero := duration[:0]
	for _, d := range duration {
		if d.Value > 0 {
			nonZero = append(nonZero, d)
		}
	}

	holesData := toNameValues(holes)
	sort.Slice(holesData, func(i, j int) bool { return holesData[i].Name < holesData[j].Name })

	stateData := toNameValues(states)
	sort.Slice(stateData, func(i, j int) bool { return stateData[i].Value > stateData[j].Value })
	if len(stateData) > 10 {
		stateData = stateData[:10]
	}

	activityData := toNameValues(monthly)
	sort.Slice(activityData, func(i, j int) bool {
		return monthlyKeys[activityData[i].Name].Before(monthlyKeys[activityData[j].Name])
	})

	typeData := toNameValues(types)
	sort.Slice(typeData, func(i, j int) bool { return typeData[i].Value > typeData[j].Value })

	return c.JSON(fiber.Map{
		"duration": nonZero,
		"holes":    holesData,
		"states":   stateData,
		"activity": activityData,
		"types":    typeData,
	})
}

type mapMarker struct {
	State       string  `json:"state"`
	Lat         float64 `json:"lat"`
	Lng         float64 `json:"lng"`
	Cameras     int     `json:"cameras"`
	Workers     int     `json:"workers"`
	Tournaments int     `json:"tournaments"`
	Shipments   int     `json:"shipments"`
}

// GetMapMarkers buckets every entity into its state and attaches coordinates
// from the static table. Entities in locations the table does not know
// (including Almacén) are left off the map, matching the dashboard.
func (s *StatsService) GetMapMarkers(c *fiber.Ctx) error {
	var (
		tournaments []models.Tournament
		workers     []models.Worker
		cameras     []models.Camera
		shipments   []models.Shipment
	)
	if err := s.DB.Find(&tournaments).Error; err != nil {
		return c.Status(500).JSON(fiber.Map{"error": "failed to fetch tournaments"})
	}
	if err := s.DB.Find(&workers).Error; err != nil {
		return c.Status(500).JSON(fiber.Map{"error": "failed to fetch workers"})
	}
	if err := s.DB.Find(&cameras).Error; err != nil {
		return c.Status(500).JSON(fiber.Map{"error": "failed to fetch cameras"})
	}
	if err := s.DB.Find(&shipments).Error; err != nil {
		return c.Status(500).JSON(fiber.Map{"error": "failed to fetch shipments"})
	}

	markers := map[string]*mapMarker{}
	bump := func(place string, f func(m *mapMarker)) {
		coord, ok := utils.LookupState(place)
		if !ok {
			return
		}
		state := utils.CanonicalState(place)
		if _, ok := markers[state]; !ok {
			markers[state] = &mapMarker{State: state, Lat: coord.Lat, Lng: coord.Lng}
		}
		f(markers[state])
	}

	for _, t := range tournaments {
		bump(t.State, func(m *mapMarker) { m.Tournaments++ })
	}
	for _, w := range workers {
		bump(w.State, func(m *mapMarker) { m.Workers++ })
	}
	for _, cam := range cameras {
		bump(cam.Location, func(m *mapMarker) { m.Cameras++ })
	}
	for _, sh := range shipments {
		bump(sh.Destination, func(m *mapMarker) { m.Shipments++ })
	}

	out := make([]mapMarker, 0, len(markers))
	for _, m := range markers {
		out = append(out, *m)
	}
	sort.Slice(out, func(i, j int) bool { return out[i].State < out[j].State })
	return c.JSON(out)
}

func toNameValues(m map[string]int) []NameValue {
	out := make([]NameValue, 0, len(m))
	for k, v := range m {
		out = append(out, NameValue{Name: k, Value: v})
	}
	return out
}
