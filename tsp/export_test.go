package tsp

// Test-only hooks into the colony's pheromone bookkeeping.

// StageDepositForTest exposes stageDeposit.
func (c *ColonySearch) StageDepositForTest(tour []int, length float64) { c.stageDeposit(tour, length) }

// UpdatePheromonesForTest exposes updatePheromones.
func (c *ColonySearch) UpdatePheromonesForTest() { c.updatePheromones() }
