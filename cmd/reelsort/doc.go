// Command reelsort renames movie and TV episode files using TMDB metadata.
package main
