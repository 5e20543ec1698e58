// Package contracts holds recorded YouTube Data API and OAuth responses.
// Tests replay them against the clients so a change in either the wire
// format or the parsing code shows up as a failing test.
package contracts

// YouTubeSearchContract is a search.list response for type=video.
const YouTubeSearchContract = `{
  "kind": "youtube#searchListResponse",
  "etag": "q1n1bPo0rS4Xc1gqH3mD1XzF7oA",
  "nextPageToken": "CAIQAA",
  "regionCode": "US",
  "pageInfo": {"totalResults": 1000000, "resultsPerPage": 2},
  "items": [
    {
      "kind": "youtube#searchResult",
      "etag": "a1",
      "id": {"kind": "youtube#video", "videoId": "dQw4w9WgXcQ"}
    },
    {
      "kind": "youtube#searchResult",
      "etag": "a2",
      "id": {"kind": "youtube#video", "videoId": "9bZkp7q19f0"}
    }
  ]
}`

// YouTubeVideoListContract is a videos.list response with the snippet,
// statistics and contentDetails parts.
const YouTubeVideoListContract = `{
  "kind": "youtube#videoListResponse",
  "etag": "b0",
  "items": [
    {
      "kind": "youtube#video",
      "etag": "b1",
      "id": "9bZkp7q19f0",
      "snippet": {
        "publishedAt": "2024-03-10T08:00:00Z",
        "channelId": "UCrDkAvwZum-UTjHmzDI2iIw",
        "title": "Second Video",
        "description": "",
        "thumbnails": {
          "default": {"url": "https://i.ytimg.com/vi/9bZkp7q19f0/default.jpg", "width": 120, "height": 90}
        },
        "channelTitle": "Another Channel"
      },
      "contentDetails": {"duration": "PT4M13S", "dimension": "2d", "definition": "hd", "caption": "false"},
      "statistics": {"viewCount": "5200000000", "likeCount": "29000000", "commentCount": "5300000"}
    },
    {
      "kind": "youtube#video",
      "etag": "b2",
      "id": "dQw4w9WgXcQ",
      "snippet": {
        "publishedAt": "2024-03-01T12:30:00Z",
        "channelId": "UCuAXFkgsw1L7xaCfnd5JJOw",
        "title": "First Video",
        "description": "A description",
        "thumbnails": {
          "default": {"url": "https://i.ytimg.com/vi/dQw4w9WgXcQ/default.jpg", "width": 120, "height": 90},
          "medium": {"url": "https://i.ytimg.com/vi/dQw4w9WgXcQ/mqdefault.jpg", "width": 320, "height": 180},
          "high": {"url": "https://i.ytimg.com/vi/dQw4w9WgXcQ/hqdefault.jpg", "width": 480, "height": 360}
        },
        "channelTitle": "Some Channel",
        "defaultAudioLanguage": "en"
      },
      "contentDetails": {"duration": "PT1H2M5S", "dimension": "2d", "definition": "hd", "caption": "true"},
      "statistics": {"viewCount": "1500000000", "likeCount": "17000000", "favoriteCount": "0"}
    }
  ],
  "pageInfo": {"totalResults": 2, "resultsPerPage": 2}
}`

// YouTubePlaylistContract is a playlists.insert response.
const YouTubePlaylistContract = `{
  "kind": "youtube#playlist",
  "etag": "c1",
  "id": "PLrAXtmErZgOeiKm4sgNOknGvNjby9efdf",
  "snippet": {
    "publishedAt": "2024-06-01T12:00:00Z",
    "channelId": "UCuAXFkgsw1L7xaCfnd5JJOw",
    "title": "Go mix",
    "description": "Created with playlistmix",
    "channelTitle": "Some Channel"
  },
  "status": {"privacyStatus": "private"}
}`

// YouTubePlaylistItemContract is a playlistItems.insert response.
const YouTubePlaylistItemContract = `{
  "kind": "youtube#playlistItem",
  "etag": "d1",
  "id": "UExyQVh0bUVyWmdPZWlLbTRzZ05Pa25Hdk5qYnk5ZWZkZi41NkI0NEY2RDEwNTU3Q0M2",
  "snippet": {
    "publishedAt": "2024-06-01T12:00:01Z",
    "channelId": "UCuAXFkgsw1L7xaCfnd5JJOw",
    "title": "First Video",
    "playlistId": "PLrAXtmErZgOeiKm4sgNOknGvNjby9efdf",
    "position": 0,
    "resourceId": {"kind": "youtube#video", "videoId": "dQw4w9WgXcQ"}
  }
}`

// YouTubeQuotaErrorContract is the 403 body returned once the daily quota
// is spent.
const YouTubeQuotaErrorContract = `{
  "error": {
    "code": 403,
    "message": "The request cannot be completed because you have exceeded your <a href=\"/youtube/v3/getting-started#quota\">quota</a>.",
    "errors": [
      {
        "message": "The request cannot be completed because you have exceeded your <a href=\"/youtube/v3/getting-started#quota\">quota</a>.",
        "domain": "youtube.quota",
        "reason": "quotaExceeded"
      }
    ]
  }
}`

// OAuthTokenContract is a refresh_token grant response from Google.
const OAuthTokenContract = `{
  "access_token": "ya29.a0AfH6SMBx...",
  "expires_in": 3599,
  "scope": "https://www.googleapis.com/auth/youtube",
  "token_type": "Bearer"
}`

// OAuthErrorContract is the response to a revoked refresh token.
const OAuthErrorContract = `{
  "error": "invalid_grant",
  "error_description": "Token has been expired or revoked."
}`
