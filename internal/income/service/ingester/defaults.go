package ingester

const (
	kindWithdrawal   = "withdrawal"
	kindMinerReward  = "miner_reward"
	kindUnclassified = "unclassified"
	kindNonPositive  = "non_positive"
	kindAfterWindow  = "after_window"
	kindBeforeWindow = "before_window"

	progressEveryPages = 10
)
