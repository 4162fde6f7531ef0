package sensor

// AdviceFor returns a static prevention hint for anomalies raised on a
// sensor of the given type.
func AdviceFor(sensorType string) string {
	switch sensorType {
	case TypeMeter:
		return "Check concurrent high-load appliances; consider staggering usage; inspect for shorts or overcurrent."
	case TypePhase:
		return "Investigate phase imbalance or wiring; redistribute loads across phases; check breaker health."
	case TypePlug:
		return "Unplug suspect device, inspect adapter/cable, avoid overloading multi-plugs."
	default:
		return "Verify wiring and recent load changes."
	}
}
