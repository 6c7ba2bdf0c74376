package ledger

import "github.com/daehan/moneybook/internal/model"

// tradePairs reconstructs buy-to-close legs from valuations already sorted
// ascending by date. It is FIFO lot matching with mutable mark overrides:
//
//   - a buy opens a lot and waits in the pending queue;
//   - a sell permanently closes the oldest pending lot, replacing any
//     pseudo-close that lot had, and is silently dropped when nothing is
//     open;
//   - a mark pairs with the oldest pending lot without consuming it,
//     superseding any earlier pair that lot produced, so the chart always
//     shows one current pseudo-close per open lot until a real sell lands.
//
// Pairs come back in append order with superseded entries removed at the
// point of supersession; downstream rendering observes that order.
func tradePairs(records []model.ValuationRecord) []model.TradePair {
	var pairs []model.TradePair
	var pendingBuys []model.ValuationRecord

	for _, rec := range records {
		switch rec.TransactionType {
		case model.ValuationBuy:
			pendingBuys = append(pendingBuys, rec)

		case model.ValuationSell:
			if len(pendingBuys) == 0 {
				continue
			}
			buy := pendingBuys[0]
			pendingBuys = pendingBuys[1:]
			pairs = supersede(pairs, buy.ID)
			pairs = append(pairs, model.TradePair{Buy: buy, Sell: rec})

		case model.ValuationMark:
			if len(pendingBuys) == 0 {
				continue
			}
			buy := pendingBuys[0]
			pairs = supersede(pairs, buy.ID)
			pairs = append(pairs, model.TradePair{Buy: buy, Sell: rec})
		}
	}
	return pairs
}

// supersede removes the pair an earlier mark produced for this buy, keeping
// append order for the rest.
func supersede(pairs []model.TradePair, buyID string) []model.TradePair {
	for i := range pairs {
		if pairs[i].Buy.ID == buyID {
			return append(pairs[:i], pairs[i+1:]...)
		}
	}
	return pairs
}
