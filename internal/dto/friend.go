package dto

type AddFriendRequest struct {
	Friend string `json:"friend"`
}

type ApproveRequest struct {
	From string `json:"from"`
}

type FriendsResponse struct {
	Friends []string `json:"friends"`
}

type IncomingRequestsResponse struct {
	From []string `json:"from"`
}
