package ingester

import "github.com/goodnatureofminers/blockinsight7000-income/internal/income/model"

// classify decides whether a positive credit to address in block is income.
// Withdrawal receipt wins over a miner match.
func classify(block model.BlockInfo, address string, policy MinerPolicy) model.Classification {
	if block.WithdrawalsKnown && block.HasReceiver(address) {
		return model.Classification{IsWithdrawal: true}
	}
	if !block.MinerKnown {
		return model.Classification{}
	}
	if policy == MinerStrict {
		return model.Classification{IsMinerReward: block.MinedBy(address)}
	}
	return model.Classification{IsMinerReward: true}
}
