package document

type ItemStatus string

const (
	StatusOwned         ItemStatus = "owned"
	StatusWishlist      ItemStatus = "wishlist"
	StatusPreordered    ItemStatus = "preordered"
	StatusFormerlyOwned ItemStatus = "formerlyOwned"
	StatusPlayed        ItemStatus = "played"
)

type BoxSizeClass string

const (
	BoxSmall  BoxSizeClass = "S"
	BoxMedium BoxSizeClass = "M"
	BoxLarge  BoxSizeClass = "L"
	BoxXLarge BoxSizeClass = "XL"
	BoxTall   BoxSizeClass = "Tall"
)

type ItemCondition string

const (
	ConditionNew     ItemCondition = "new"
	ConditionLikeNew ItemCondition = "likeNew"
	ConditionGood    ItemCondition = "good"
	ConditionFair    ItemCondition = "fair"
	ConditionWorn    ItemCondition = "worn"
)

type Visibility string

const (
	VisibilityPublic    Visibility = "public"
	VisibilityFollowers Visibility = "followers"
	VisibilityPrivate   Visibility = "private"
)

// LibraryItem is one entry in a user's game collection. The item is owned
// exclusively by the user whose path prefix it is stored under.
type LibraryItem struct {
	LibraryID     string     `json:"libraryId"`
	GameID        string     `json:"gameId"`
	GameName      string     `json:"gameName"`
	GameThumbnail *string    `json:"gameThumbnail,omitempty"`
	GameYear      *float64   `json:"gameYear,omitempty"`
	Status        ItemStatus `json:"status"`
	Quantity      float64    `json:"quantity"`
	Favorite      bool       `json:"favorite"`
	PlayCount     float64    `json:"playCount"`
	MyRating      *float64   `json:"myRating,omitempty"`
	Notes         *string    `json:"notes,omitempty"`
	Tags          []string   `json:"tags,omitempty"`
	LastPlayedAt  *Timestamp `json:"lastPlayedAt,omitempty"`
	FirstPlayedAt *Timestamp `json:"firstPlayedAt,omitempty"`
	ForTrade      bool       `json:"forTrade"`
	ForSale       bool       `json:"forSale"`

	BoxSizeClass   *BoxSizeClass `json:"boxSizeClass,omitempty"`
	BoxWidthMm     *float64      `json:"boxWidthMm,omitempty"`
	BoxHeightMm    *float64      `json:"boxHeightMm,omitempty"`
	BoxDepthMm     *float64      `json:"boxDepthMm,omitempty"`
	ShelfCellIndex *int          `json:"shelfCellIndex,omitempty"`
	CellPosition   *int          `json:"cellPosition,omitempty"`

	Condition          *ItemCondition `json:"condition,omitempty"`
	Language           *string        `json:"language,omitempty"`
	Edition            *string        `json:"edition,omitempty"`
	VisibilityOverride *Visibility    `json:"visibilityOverride,omitempty"`

	CreatedAt *Timestamp `json:"createdAt,omitempty"`
	UpdatedAt *Timestamp `json:"updatedAt,omitempty"`
}

func (*LibraryItem) DocumentKind() Kind { return KindLibraryItem }
