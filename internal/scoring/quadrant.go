package scoring

// ClassifyQuadrant maps a scenario and risk probability to its Kahneman
// quadrant with the default English text. Probabilities of exactly 0.5 fall
// on the probable side. Anything that is not a gain is framed as a loss.
func ClassifyQuadrant(scenario Scenario, riskProbability float64) QuadrantResult {
	return defaultCatalog.Classify(scenario, riskProbability, DefaultLocale)
}

func quadrantFor(scenario Scenario, riskProbability float64) Quadrant {
	if scenario == ScenarioGain {
		if Probable(riskProbability) {
			return QuadrantGainProbable
		}
		return QuadrantGainImprobable
	}
	if Probable(riskProbability) {
		return QuadrantLossProbable
	}
	return QuadrantLossImprobable
}
