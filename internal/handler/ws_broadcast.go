package handler

// BroadcastScenarioEvent implements service.Broadcaster using the WebSocket hub.
func (h *Hub) BroadcastScenarioEvent(scenarioID string, eventType string, data any) {
	h.BroadcastToScenario(scenarioID, WSEvent{
		Type:       eventType,
		ScenarioID: scenarioID,
		Data:       data,
	})
}
