package services

import (
	"fmt"

	"camera-logistics-system/models"
)

// CameraEffect is one derived camera mutation plus its journal entry. Nil
// AssignedTo/Location mean "leave as is". Effects are applied in slice order;
// a later effect on the same camera overrides an earlier one, matching how
// the transition rules stack.
//
// RosterHandled marks effects whose worker-roster moves are batched by the
// caller (the enviado flow transfers whole rosters at once); every other
// assignment change has its rosters reconciled per camera on application.
type CameraEffect struct {
	CameraID      string
	Status        string
	AssignedTo    *string
	Location      *string
	RosterHandled bool
	HistoryType   string
	HistoryTitle  string
	Details       models.JSONMap
}

func strPtr(s string) *string { return &s }

// TransitionEffects computes the camera side effects of moving a shipment from
// oldStatus to newStatus. Pure: no lookups, no I/O.
//
//	-> enviado (from non-enviado):            en envio, assigned to the recipient
//	-> entregado (from non-entregado):        disponible, assigned to the recipient, at the destination
//	enviado -> other (not entregado/enviado): disponible, assignment and location untouched
//	entregado -> other (not entregado):       disponible, unassigned, back to the warehouse
//
// Worker roster transfers on -> enviado are handled by the shipment service;
// they need name lookups and are not part of the pure rule set.
func TransitionEffects(oldStatus, newStatus string, cameras []string, shipmentID, recipient, destination string) []CameraEffect {
	if len(cameras) == 0 {
		return nil
	}
	var effects []CameraEffect

	if newStatus == models.ShipmentEnviado && oldStatus != models.ShipmentEnviado {
		for _, id := range cameras {
			effects = append(effects, CameraEffect{
				CameraID:      id,
				Status:        models.CameraEnEnvio,
				AssignedTo:    strPtr(recipient),
				RosterHandled: true,
				HistoryType:   models.HistoryShipment,
				HistoryTitle:  fmt.Sprintf("Enviado a %s", destination),
				Details: models.JSONMap{
					"shipmentId":  shipmentID,
					"destination": destination,
					"recipient":   recipient,
					"status":      models.ShipmentEnviado,
				},
			})
		}
	}

	if newStatus == models.ShipmentEntregado && oldStatus != models.ShipmentEntregado {
		for _, id := range cameras {
			effects = append(effects, CameraEffect{
				CameraID:     id,
				Status:       models.CameraDisponible,
				AssignedTo:   strPtr(recipient),
				Location:     strPtr(destination),
				HistoryType:  models.HistoryReturn,
				HistoryTitle: fmt.Sprintf("Entregado a %s en %s", recipient, destination),
				Details: models.JSONMap{
					"shipmentId":  shipmentID,
					"destination": destination,
					"recipient":   recipient,
					"status":      models.ShipmentEntregado,
				},
			})
		}
	}

	if oldStatus == models.ShipmentEnviado &&
		newStatus != models.ShipmentEnviado && newStatus != models.ShipmentEntregado {
		for _, id := range cameras {
			effects = append(effects, CameraEffect{
				CameraID:     id,
				Status:       models.CameraDisponible,
				HistoryType:  models.HistoryShipment,
				HistoryTitle: fmt.Sprintf("Envío cancelado (%s)", newStatus),
				Details: models.JSONMap{
					"shipmentId":     shipmentID,
					"reason":         newStatus,
					"previousStatus": oldStatus,
				},
			})
		}
	}

	if oldStatus == models.ShipmentEntregado && newStatus != models.ShipmentEntregado {
		for _, id := range cameras {
			effects = append(effects, CameraEffect{
				CameraID:     id,
				Status:       models.CameraDisponible,
				AssignedTo:   strPtr(""),
				Location:     strPtr(models.WarehouseLocation),
				HistoryType:  models.HistoryShipment,
				HistoryTitle: fmt.Sprintf("Devolución cancelada (%s)", newStatus),
				Details: models.JSONMap{
					"shipmentId":        shipmentID,
					"reason":            newStatus,
					"previousRecipient": recipient,
				},
			})
		}
	}

	return effects
}

// AddedCameraEffects covers cameras added to a shipment whose status did not
// change in the same edit: they receive the same effect as if the shipment had
// just entered its current status.
func AddedCameraEffects(status string, cameras []string, shipmentID, recipient, destination string) []CameraEffect {
	var effects []CameraEffect
	switch status {
	case models.ShipmentEnviado:
		for _, id := range cameras {
			effects = append(effects, CameraEffect{
				CameraID:     id,
				Status:       models.CameraEnEnvio,
				AssignedTo:   strPtr(recipient),
				HistoryType:  models.HistoryShipment,
				HistoryTitle: fmt.Sprintf("Agregado a envío %s (Enviado)", shipmentID),
				Details:      models.JSONMap{"shipmentId": shipmentID, "destination": destination},
			})
		}
	case models.ShipmentEntregado:
		for _, id := range cameras {
			effects = append(effects, CameraEffect{
				CameraID:     id,
				Status:       models.CameraDisponible,
				AssignedTo:   strPtr(recipient),
				Location:     strPtr(destination),
				HistoryType:  models.HistoryShipment,
				HistoryTitle: fmt.Sprintf("Agregado a envío %s (Entregado)", shipmentID),
				Details:      models.JSONMap{"shipmentId": shipmentID, "recipient": recipient},
			})
		}
	}
	return effects
}

// RemovedCameraEffects covers cameras taken out of a shipment during an edit:
// unconditionally back to available, unassigned, in the warehouse, whatever
// the shipment's status.
func RemovedCameraEffects(cameras []string, shipmentID, previousStatus string) []CameraEffect {
	var effects []CameraEffect
	for _, id := range cameras {
		effects = append(effects, CameraEffect{
			CameraID:     id,
			Status:       models.CameraDisponible,
			AssignedTo:   strPtr(""),
			Location:     strPtr(models.WarehouseLocation),
			HistoryType:  models.HistoryShipment,
			HistoryTitle: fmt.Sprintf("Removido del envío %s", shipmentID),
			Details:      models.JSONMap{"shipmentId": shipmentID, "previousStatus": previousStatus},
		})
	}
	return effects
}
