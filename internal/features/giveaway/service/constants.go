package service

const (
	msgGiveawayCancelled = "Giveaway cancelled."
	msgRerollCancelled   = "Reroll cancelled."

	msgImageReceived       = "Image received! Now please send the winner user IDs (one per line)."
	msgInvalidWinnerIDs    = "Please provide valid user IDs (numbers only, one per line)."
	msgWinnersSet          = "✅ Winners set! %s will win the giveaway. The timer has started and will count down in real time!"
	msgInvalidRerollID     = "Please provide a valid user ID (numbers only)."
	msgUnknownRerollWinner = "I couldn't find that user in the server. Please make sure you're using the correct user ID."
	msgRerollWinnerSet     = "Reroll winner set! %s will win the reroll. The selection will appear completely random after %d seconds."

	msgCongratulations       = "Congratulations %s! You won **%s**!"
	msgNoEntries             = "No one entered the giveaway. The giveaway has been cancelled."
	msgRerollCongratulations = "𓆩♡𓆪 **REROLL** 𓆩♡𓆪\nCongratulations %s! You won the reroll for **%s**!"
	msgNoRerollParticipants  = "No participants found for reroll."

	msgGiveawayMessageDeleted = "The giveaway message was deleted. The giveaway has been cancelled."
	msgRerollMessageDeleted   = "The giveaway message was deleted. Reroll cancelled."
	msgNoPermission           = "I don't have permission to manage messages in this channel."
)
