package styles

// Tip: To find icons use https://github.com/loichyan/nerdfix

var (
	IconConfirmed  = "" // nf-fa-check
	IconArrowLeft  = "←"
	IconArrowRight = "→"
)
